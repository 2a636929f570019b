package domain

// ReviewImage is a single entry of a loaded review list. The URL is the
// identity: unique within a session, and CSV appearance order is the
// navigation order.
type ReviewImage struct {
	URL string
}

// ExportRow is one line of the exported audit CSV: the image URL and its
// defect labels joined with "; ".
type ExportRow struct {
	URL     string
	Defects string
}

// ViewportState describes the zoom/pan transform of the displayed image.
// Scale is either 1 (fit) or the configured zoom factor; when Scale is 1
// the translation is always (0, 0).
type ViewportState struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// FilterState holds the four filter parameters as integer percentages.
// 100 means neutral for every parameter. Brightness, contrast and
// saturation are display-layer adjustments; gamma requires a pixel pass.
type FilterState struct {
	Brightness int
	Contrast   int
	Saturation int
	Gamma      int
}

// DefaultFilters returns the neutral filter state.
func DefaultFilters() FilterState {
	return FilterState{Brightness: 100, Contrast: 100, Saturation: 100, Gamma: 100}
}
