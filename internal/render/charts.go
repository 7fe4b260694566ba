package render

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/quality-irrigation/mi-console/internal/deck"
)

// Brand palette and chart colors.
var (
	chartPalette = []string{"#002D62", "#0093D0", "#3F6189", "#D9822B"}
	gridColor    = "#D5DEE6"
	textColor    = "#506070"
)

// renderChart dispatches on the declared chart library: clarksoft draws
// inline SVG, plotly and echarts produce engine options via the shim, and
// anything else falls back to the simple proportional bar chart.
func renderChart(out *Output, chart *deck.Chart, role Role) {
	if chart == nil {
		return
	}
	out.ChartAlt = chart.AltText

	switch strings.ToLower(chart.Library) {
	case "clarksoft":
		if svg := clarksoftSVG(chart); svg != "" {
			out.ChartHTML = svg
			return
		}
	case "plotly":
		if option := plotlyFigure(chart); option != nil {
			out.ChartEngine = "plotly"
			out.ChartOption = option
			return
		}
	case "echarts":
		if option := echartsOption(chart, role); option != nil {
			out.ChartEngine = "echarts"
			out.ChartOption = option
			return
		}
	}

	out.ChartHTML = simpleBarChart(chart)
}

type axisRange struct {
	min, max float64
}

// rangeFor computes the plotted range for one axis: explicit bounds win,
// otherwise the data min/max; equal bounds spread by 1; then 8% padding.
func rangeFor(series []deck.ChartSeries, axis *deck.ChartAxis) axisRange {
	var values []float64
	for _, s := range series {
		for _, p := range s.Points {
			values = append(values, p.Y)
		}
	}

	min, max := 0.0, 1.0
	if len(values) > 0 {
		min, max = values[0], values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if axis != nil && axis.Min != nil {
		min = *axis.Min
	}
	if axis != nil && axis.Max != nil {
		max = *axis.Max
	}
	if min == max {
		min--
		max++
	}
	pad := (max - min) * 0.08
	return axisRange{min: min - pad, max: max + pad}
}

// clarksoftSVG draws the hand-rolled line chart: 640x320 viewBox, dual
// y axes, 5 gridlines and ticks, dash "6 4" and dot "2 4" stroke styles,
// point circles r=3.5, legend and note. Returns "" when the chart carries
// no series, letting the caller fall back.
func clarksoftSVG(chart *deck.Chart) string {
	if len(chart.Series) == 0 {
		return ""
	}

	var leftSeries, rightSeries []deck.ChartSeries
	for _, s := range chart.Series {
		if s.Axis == "right" {
			rightSeries = append(rightSeries, s)
		} else {
			leftSeries = append(leftSeries, s)
		}
	}
	hasRightAxis := len(rightSeries) > 0

	xLabels := xAxisLabels(chart)

	const width, height = 640.0, 320.0
	padTop, padBottom, padLeft := 24.0, 52.0, 60.0
	padRight := 24.0
	if hasRightAxis {
		padRight = 60.0
	}
	plotWidth := width - padLeft - padRight
	plotHeight := height - padTop - padBottom

	leftAxis := rangeFor(leftSeries, chart.YAxis)
	var rightAxis axisRange
	if hasRightAxis {
		rightAxis = rangeFor(rightSeries, chart.Y2Axis)
	}

	xPos := func(index int) float64 {
		if len(xLabels) <= 1 {
			return padLeft + plotWidth/2
		}
		return padLeft + float64(index)/float64(len(xLabels)-1)*plotWidth
	}
	yPos := func(value float64, axis axisRange) float64 {
		span := axis.max - axis.min
		if span <= 0 {
			return padTop + plotHeight/2
		}
		return padTop + (axis.max-value)/span*plotHeight
	}

	var b strings.Builder
	b.WriteString(`<div class="slide-chart is-clarksoft">`)
	if chart.Title != "" {
		fmt.Fprintf(&b, `<div class="slide-chart-title">%s</div>`, html.EscapeString(chart.Title))
	}
	b.WriteString(`<div class="slide-chart-canvas">`)
	fmt.Fprintf(&b, `<svg class="slide-chart-svg" viewBox="0 0 640 320" role="img" aria-label="%s">`,
		html.EscapeString(firstNonEmpty(chart.Title, "Chart")))

	// Horizontal gridlines.
	const gridLines = 5
	for i := 0; i <= gridLines; i++ {
		y := padTop + float64(i)/gridLines*plotHeight
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"></line>`,
			num(padLeft), num(y), num(width-padRight), num(y), gridColor)
	}

	// Axis lines.
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1.2"></line>`,
		num(padLeft), num(padTop), num(padLeft), num(height-padBottom), gridColor)
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1.2"></line>`,
		num(padLeft), num(height-padBottom), num(width-padRight), num(height-padBottom), gridColor)
	if hasRightAxis {
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1.2"></line>`,
			num(width-padRight), num(padTop), num(width-padRight), num(height-padBottom), gridColor)
	}

	// Tick labels.
	const tickCount = 5
	for i := 0; i <= tickCount; i++ {
		value := leftAxis.min + (leftAxis.max-leftAxis.min)*float64(tickCount-i)/tickCount
		y := padTop + float64(i)/tickCount*plotHeight
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="end" font-size="10" fill="%s" class="slide-chart-tick">%s%s</text>`,
			num(padLeft-8), num(y+4), textColor, tickLabel(value), axisSuffix(chart.YAxis))
	}
	if hasRightAxis {
		for i := 0; i <= tickCount; i++ {
			value := rightAxis.min + (rightAxis.max-rightAxis.min)*float64(tickCount-i)/tickCount
			y := padTop + float64(i)/tickCount*plotHeight
			fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="start" font-size="10" fill="%s" class="slide-chart-tick">%s%s</text>`,
				num(width-padRight+8), num(y+4), textColor, tickLabel(value), axisSuffix(chart.Y2Axis))
		}
	}
	for i, label := range xLabels {
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="10" fill="%s" class="slide-chart-tick">%s</text>`,
			num(xPos(i)), num(height-padBottom+18), textColor, html.EscapeString(label))
	}

	// Axis titles.
	if chart.XAxis != nil && chart.XAxis.Label != "" {
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="11" fill="%s" class="slide-chart-axis-label">%s</text>`,
			num(padLeft+plotWidth/2), num(height-10), textColor, html.EscapeString(chart.XAxis.Label))
	}
	if chart.YAxis != nil && chart.YAxis.Label != "" {
		midY := padTop + plotHeight/2
		fmt.Fprintf(&b, `<text x="16" y="%s" text-anchor="middle" font-size="11" fill="%s" class="slide-chart-axis-label" transform="rotate(-90 16 %s)">%s</text>`,
			num(midY), textColor, num(midY), html.EscapeString(chart.YAxis.Label))
	}
	if hasRightAxis && chart.Y2Axis != nil && chart.Y2Axis.Label != "" {
		midY := padTop + plotHeight/2
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="11" fill="%s" class="slide-chart-axis-label" transform="rotate(90 %s %s)">%s</text>`,
			num(width-12), num(midY), textColor, num(width-12), num(midY), html.EscapeString(chart.Y2Axis.Label))
	}

	// Series paths and point markers.
	for i, series := range chart.Series {
		axis := leftAxis
		if series.Axis == "right" && hasRightAxis {
			axis = rightAxis
		}
		color := series.Color
		if color == "" {
			color = chartPalette[i%len(chartPalette)]
		}
		if len(series.Points) == 0 {
			continue
		}

		var path strings.Builder
		for j, p := range series.Points {
			cmd := "L"
			if j == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&path, "%s %s %s ", cmd, num(xPos(j)), num(yPos(p.Y, axis)))
		}
		dash := ""
		switch series.Style {
		case "dash":
			dash = ` stroke-dasharray="6 4"`
		case "dot":
			dash = ` stroke-dasharray="2 4"`
		}
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2"%s></path>`,
			strings.TrimSpace(path.String()), color, dash)
		for j, p := range series.Points {
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="3.5" fill="%s"></circle>`,
				num(xPos(j)), num(yPos(p.Y, axis)), color)
		}
	}

	b.WriteString(`</svg></div>`)

	// Legend.
	b.WriteString(`<div class="slide-chart-legend">`)
	for i, series := range chart.Series {
		color := series.Color
		if color == "" {
			color = chartPalette[i%len(chartPalette)]
		}
		label := series.Label
		if label == "" {
			label = fmt.Sprintf("Series %d", i+1)
		}
		fmt.Fprintf(&b, `<div class="slide-chart-legend-item"><span class="slide-chart-legend-swatch" style="background:%s"></span><span>%s</span></div>`,
			color, html.EscapeString(label))
	}
	b.WriteString(`</div>`)

	if note := firstNonEmpty(chart.Note, chart.SourceNote); note != "" {
		fmt.Fprintf(&b, `<div class="slide-chart-note">%s</div>`, html.EscapeString(note))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// simpleBarChart draws a proportional bar chart from parallel labels and
// values. Mismatched lengths or non-numeric values hide the chart.
func simpleBarChart(chart *deck.Chart) string {
	if len(chart.Labels) == 0 || len(chart.Labels) != len(chart.Values) {
		return ""
	}
	values := make([]float64, len(chart.Values))
	for i, raw := range chart.Values {
		v, ok := numericValue(raw)
		if !ok {
			return ""
		}
		values[i] = v
	}

	maxValue := 0.0
	for _, v := range values {
		if v > maxValue {
			maxValue = v
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="slide-chart">`)
	fmt.Fprintf(&b, `<div class="slide-chart-title">%s</div>`, html.EscapeString(firstNonEmpty(chart.Title, "Chart")))
	b.WriteString(`<div class="slide-chart-grid">`)
	for i, v := range values {
		heightPct := 0.0
		if maxValue > 0 {
			heightPct = v / maxValue * 100
		}
		fmt.Fprintf(&b, `<div class="slide-chart-bar"><div class="slide-chart-bar-value">%s%s</div><div class="slide-chart-bar-fill" style="height:%s%%"></div><div class="slide-chart-bar-label">%s</div></div>`,
			num(v), html.EscapeString(chart.Unit), num(heightPct), html.EscapeString(chart.Labels[i]))
	}
	b.WriteString(`</div>`)
	if note := firstNonEmpty(chart.Note, chart.SourceNote); note != "" {
		fmt.Fprintf(&b, `<div class="slide-chart-note">%s</div>`, html.EscapeString(note))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// xAxisLabels uses configured ticks when present, else the first series'
// x values.
func xAxisLabels(chart *deck.Chart) []string {
	var raws []json.RawMessage
	if chart.XAxis != nil && len(chart.XAxis.Ticks) > 0 {
		raws = chart.XAxis.Ticks
	} else if len(chart.Series) > 0 {
		for _, p := range chart.Series[0].Points {
			raws = append(raws, p.X)
		}
	}
	labels := make([]string, len(raws))
	for i, raw := range raws {
		labels[i] = rawLabel(raw)
	}
	return labels
}

func rawLabel(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func numericValue(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func axisSuffix(axis *deck.ChartAxis) string {
	if axis == nil {
		return ""
	}
	return html.EscapeString(axis.Suffix)
}

// tickLabel matches the display rule for axis ticks: one decimal place
// with a trailing ".0" stripped.
func tickLabel(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
