package domain

import "errors"

// Review session error taxonomy. Every failure is handled at the operation
// boundary and surfaced as a non-fatal, user-visible condition; none of
// them terminates the session or corrupts in-memory state.
var (
	// ErrEmptyList means a CSV produced zero valid image URLs. The load is
	// rejected and the prior session state is preserved.
	ErrEmptyList = errors.New("no valid image URLs in list")

	// ErrFileRead means the underlying file could not be read.
	ErrFileRead = errors.New("file could not be read")

	// ErrImageDecode means a specific image URL failed to load or decode.
	// Navigation is not blocked by it.
	ErrImageDecode = errors.New("image could not be decoded")

	// ErrGammaCompute means the pixel data needed for the gamma pass was
	// inaccessible. Display-layer filters still apply.
	ErrGammaCompute = errors.New("gamma correction could not be computed")

	// ErrDuplicateLabel rejects adding a defect type that already exists.
	ErrDuplicateLabel = errors.New("defect type already exists")

	// ErrEmptyLabel rejects adding a defect type that is empty after trimming.
	ErrEmptyLabel = errors.New("defect type name is empty")

	// ErrLastLabel rejects removing the only remaining defect type.
	ErrLastLabel = errors.New("cannot remove the last defect type")

	// ErrNoImages rejects operations that need a loaded image list.
	ErrNoImages = errors.New("no images loaded")
)
