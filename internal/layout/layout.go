// Package layout holds the viewport fitting and classification helpers the
// console views share.
package layout

// Density controls how much content a slide packs per screen.
type Density string

const (
	DensityCompact  Density = "compact"
	DensityStandard Density = "standard"
	DensityRelaxed  Density = "relaxed"
	DensityAuto     Density = "auto"
)

// Mode classifies a viewport for layout branching.
type Mode string

const (
	ModeWide   Mode = "wide"
	ModeMedium Mode = "medium"
	ModeNarrow Mode = "narrow"
	ModeTall   Mode = "tall"
)

// Viewport breakpoints.
const (
	wideMinWidth     = 1400
	mediumMinWidth   = 900
	compactMaxWidth  = 1100
	compactMaxHeight = 800
	tallMinRatio     = 1.25
)

// FitScale returns the factor that fits content of the given size into the
// available area without upscaling: min(1, availW/contentW, availH/contentH).
func FitScale(availW, availH, contentW, contentH float64) float64 {
	if contentW <= 0 || contentH <= 0 {
		return 1
	}
	scale := 1.0
	if s := availW / contentW; s < scale {
		scale = s
	}
	if s := availH / contentH; s < scale {
		scale = s
	}
	if scale < 0 {
		return 0
	}
	return scale
}

// ConsoleScale fits the console's required footprint into the viewport.
func ConsoleScale(viewportW, viewportH, requiredW, requiredH float64) float64 {
	return FitScale(viewportW, viewportH, requiredW, requiredH)
}

// NormalizeDensity validates a density preference, falling back to auto.
func NormalizeDensity(raw string) Density {
	switch Density(raw) {
	case DensityCompact, DensityStandard, DensityRelaxed, DensityAuto:
		return Density(raw)
	}
	return DensityAuto
}

// ResolveDensity resolves auto against the viewport: small viewports get
// compact, everything else standard. Explicit preferences pass through.
func ResolveDensity(pref Density, viewportW, viewportH float64) Density {
	if pref != DensityAuto {
		return pref
	}
	if viewportW <= compactMaxWidth || viewportH <= compactMaxHeight {
		return DensityCompact
	}
	return DensityStandard
}

// Classify buckets a viewport into a layout mode. Portrait-ish viewports
// (height at least 1.25x width) are tall regardless of width.
func Classify(viewportW, viewportH float64) Mode {
	if viewportW > 0 && viewportH/viewportW >= tallMinRatio {
		return ModeTall
	}
	switch {
	case viewportW >= wideMinWidth:
		return ModeWide
	case viewportW >= mediumMinWidth:
		return ModeMedium
	default:
		return ModeNarrow
	}
}
