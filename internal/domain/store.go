package domain

// AnnotationStore keeps the set of defect labels assigned to each image of
// a review session, keyed by image URL and independent of which image is
// currently displayed.
type AnnotationStore interface {
	// SetDefect adds or removes a label on an image. Adding an already
	// present label and removing an absent one are no-ops; the operation
	// never fails.
	SetDefect(url, label string, present bool)

	// Defects returns the labels assigned to an image in insertion order.
	// Unseen images yield an empty slice.
	Defects(url string) []string

	// RemoveLabelEverywhere removes a label from every image's set, so
	// annotations never reference a defect type that no longer exists.
	RemoveLabelEverywhere(label string)

	// ResetAll clears the whole store. Invoked when a new CSV is loaded.
	ResetAll()

	// Rows produces export rows for the given images in that order, with
	// each image's labels joined by "; ".
	Rows(order []string) []ExportRow
}

// DefectRegistry is the ordered, user-extensible set of defect labels
// available for tagging. It always contains at least one label and
// survives CSV reloads: defect categories are a reviewer-session-wide
// taxonomy, images are the reloadable payload.
type DefectRegistry interface {
	// Labels returns the labels in their display order.
	Labels() []string

	// Add appends a new label. It fails with ErrEmptyLabel when the label
	// is empty after trimming and with ErrDuplicateLabel when an exact
	// (case-sensitive) match is already present.
	Add(label string) error

	// Remove deletes a label. It fails with ErrLastLabel when the label is
	// the only one remaining.
	Remove(label string) error

	// Has reports whether a label is currently registered.
	Has(label string) bool
}
