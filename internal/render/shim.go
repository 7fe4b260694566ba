package render

import (
	"encoding/json"
	"strconv"

	"github.com/quality-irrigation/mi-console/internal/deck"
)

// plotlyFigure builds a plotly figure from the chart. A stored data_spec
// passes through verbatim with layout_spec/config_spec alongside it;
// otherwise the series model is translated trace by trace. Returns nil
// when there is nothing to plot.
func plotlyFigure(chart *deck.Chart) json.RawMessage {
	figure := map[string]any{}

	if len(chart.DataSpec) > 0 {
		figure["data"] = chart.DataSpec
		if len(chart.LayoutSpec) > 0 {
			figure["layout"] = chart.LayoutSpec
		}
		if len(chart.ConfigSpec) > 0 {
			figure["config"] = chart.ConfigSpec
		} else {
			figure["config"] = map[string]any{"displayModeBar": false, "responsive": true}
		}
		return mustJSON(figure)
	}

	if len(chart.Series) == 0 {
		return nil
	}

	xLabels := xAxisLabels(chart)
	var traces []map[string]any
	hasRightAxis := false
	for i, series := range chart.Series {
		color := series.Color
		if color == "" {
			color = chartPalette[i%len(chartPalette)]
		}
		line := map[string]any{"color": color, "width": 2}
		switch series.Style {
		case "dash":
			line["dash"] = "dash"
		case "dot":
			line["dash"] = "dot"
		}

		ys := make([]float64, len(series.Points))
		for j, p := range series.Points {
			ys[j] = p.Y
		}

		trace := map[string]any{
			"type": "scatter",
			"mode": "lines+markers",
			"name": seriesLabel(series, i),
			"x":    xLabels,
			"y":    ys,
			"line": line,
		}
		if series.Axis == "right" {
			trace["yaxis"] = "y2"
			hasRightAxis = true
		}
		traces = append(traces, trace)
	}

	layout := map[string]any{"margin": map[string]any{"t": 32, "r": 24, "b": 48, "l": 56}}
	if chart.Title != "" {
		layout["title"] = map[string]any{"text": chart.Title}
	}
	if chart.XAxis != nil && chart.XAxis.Label != "" {
		layout["xaxis"] = map[string]any{"title": map[string]any{"text": chart.XAxis.Label}}
	}
	layout["yaxis"] = plotlyAxis(chart.YAxis, "")
	if hasRightAxis {
		right := plotlyAxis(chart.Y2Axis, "")
		right["overlaying"] = "y"
		right["side"] = "right"
		layout["yaxis2"] = right
	}

	figure["data"] = traces
	figure["layout"] = layout
	figure["config"] = map[string]any{"displayModeBar": false, "responsive": true}
	return mustJSON(figure)
}

func plotlyAxis(axis *deck.ChartAxis, side string) map[string]any {
	out := map[string]any{}
	if side != "" {
		out["side"] = side
	}
	if axis == nil {
		return out
	}
	if axis.Label != "" {
		out["title"] = map[string]any{"text": axis.Label}
	}
	if axis.Suffix != "" {
		out["ticksuffix"] = axis.Suffix
	}
	if axis.Min != nil && axis.Max != nil {
		out["range"] = []float64{*axis.Min, *axis.Max}
	}
	return out
}

// echartsOption builds an echarts option from the chart, or passes a
// stored data_spec through verbatim. Projector views get interactive
// zoom controls stripped so the shared display stays hands-off.
func echartsOption(chart *deck.Chart, role Role) json.RawMessage {
	if len(chart.DataSpec) > 0 {
		if role == RoleProjector {
			return stripEChartsZoom(chart.DataSpec)
		}
		return chart.DataSpec
	}

	if len(chart.Series) == 0 {
		return nil
	}

	xLabels := xAxisLabels(chart)
	var legend []string
	var series []map[string]any
	hasRightAxis := false
	for i, s := range chart.Series {
		if s.Axis == "right" {
			hasRightAxis = true
		}
		legend = append(legend, seriesLabel(s, i))
	}
	for i, s := range chart.Series {
		color := s.Color
		if color == "" {
			color = chartPalette[i%len(chartPalette)]
		}
		lineStyle := map[string]any{"color": color, "width": 2}
		switch s.Style {
		case "dash":
			lineStyle["type"] = "dashed"
		case "dot":
			lineStyle["type"] = "dotted"
		}

		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			ys[j] = p.Y
		}

		entry := map[string]any{
			"type":      "line",
			"name":      seriesLabel(s, i),
			"data":      ys,
			"lineStyle": lineStyle,
			"itemStyle": map[string]any{"color": color},
		}
		if s.Axis == "right" {
			entry["yAxisIndex"] = 1
		}
		series = append(series, entry)
	}

	yAxes := []map[string]any{echartsAxis(chart.YAxis)}
	if hasRightAxis {
		yAxes = append(yAxes, echartsAxis(chart.Y2Axis))
	}

	option := map[string]any{
		"color":   chartPalette,
		"tooltip": map[string]any{"trigger": "axis"},
		"legend":  map[string]any{"data": legend},
		"xAxis":   map[string]any{"type": "category", "data": xLabels},
		"yAxis":   yAxes,
		"series":  series,
	}
	if chart.Title != "" {
		option["title"] = map[string]any{"text": chart.Title}
	}
	if chart.XAxis != nil && chart.XAxis.Label != "" {
		option["xAxis"].(map[string]any)["name"] = chart.XAxis.Label
	}
	return mustJSON(option)
}

func echartsAxis(axis *deck.ChartAxis) map[string]any {
	out := map[string]any{"type": "value"}
	if axis == nil {
		return out
	}
	if axis.Label != "" {
		out["name"] = axis.Label
	}
	if axis.Min != nil {
		out["min"] = *axis.Min
	}
	if axis.Max != nil {
		out["max"] = *axis.Max
	}
	if axis.Suffix != "" {
		out["axisLabel"] = map[string]any{"formatter": "{value}" + axis.Suffix}
	}
	return out
}

// stripEChartsZoom removes dataZoom sliders and the toolbox zoom feature
// from a raw option. A malformed option passes through unchanged.
func stripEChartsZoom(raw json.RawMessage) json.RawMessage {
	var option map[string]any
	if err := json.Unmarshal(raw, &option); err != nil {
		return raw
	}
	changed := false
	if _, ok := option["dataZoom"]; ok {
		option["dataZoom"] = []any{}
		changed = true
	}
	if toolbox, ok := option["toolbox"].(map[string]any); ok {
		if feature, ok := toolbox["feature"].(map[string]any); ok {
			if _, ok := feature["dataZoom"]; ok {
				delete(feature, "dataZoom")
				changed = true
			}
		}
	}
	if !changed {
		return raw
	}
	return mustJSON(option)
}

func seriesLabel(s deck.ChartSeries, index int) string {
	if s.Label != "" {
		return s.Label
	}
	return "Series " + strconv.Itoa(index+1)
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
