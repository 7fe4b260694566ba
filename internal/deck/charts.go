package deck

// MergeCharts attaches externally stored chart metadata onto the matching
// slides and returns a new deck value. Entries are keyed by 1-based
// slide_index; out-of-range entries are silently ignored. Only plotly
// metadata is normalized onto the slide; entries naming any other library
// are dropped rather than applied.
func MergeCharts(d Deck, charts []ChartMetadata) Deck {
	if len(charts) == 0 || len(d.Slides) == 0 {
		return d
	}

	merged := d
	merged.Slides = make([]Slide, len(d.Slides))
	copy(merged.Slides, d.Slides)

	for _, meta := range charts {
		if meta.SlideIndex < 1 || meta.SlideIndex > len(merged.Slides) {
			continue
		}
		if meta.ChartLibrary != "plotly" {
			continue
		}
		slide := &merged.Slides[meta.SlideIndex-1]
		slide.Chart = &Chart{
			Library:    "plotly",
			Title:      meta.ChartTitle,
			AltText:    meta.AltText,
			DataSpec:   meta.DataSpec,
			LayoutSpec: meta.LayoutSpec,
			ConfigSpec: meta.ConfigSpec,
		}
	}
	return merged
}
