package store

import (
	"strings"
	"sync"

	"github.com/lewtec/revisor/internal/domain"
)

// DefaultDefectTypes seeds a new registry when the configuration does not
// provide its own taxonomy.
var DefaultDefectTypes = []string{"Scratch", "Crack", "Needs Review"}

// DefectRegistry implements domain.DefectRegistry with an ordered slice of
// distinct labels. Labels are compared case-sensitively and exactly; the
// registry never becomes empty.
type DefectRegistry struct {
	mu     sync.RWMutex
	labels []string
}

// NewDefectRegistry creates a registry seeded with the given labels, or
// with DefaultDefectTypes when none are given.
func NewDefectRegistry(labels ...string) *DefectRegistry {
	if len(labels) == 0 {
		labels = DefaultDefectTypes
	}
	r := &DefectRegistry{labels: make([]string, len(labels))}
	copy(r.labels, labels)
	return r
}

// Labels returns the labels in their display order.
func (r *DefectRegistry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Add appends a new label after trimming surrounding whitespace.
func (r *DefectRegistry) Add(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.ErrEmptyLabel
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if indexOf(r.labels, label) >= 0 {
		return domain.ErrDuplicateLabel
	}
	r.labels = append(r.labels, label)
	return nil
}

// Remove deletes a label. Removing the only remaining label is rejected so
// the reviewer always has something to tag with; removing an unknown label
// is a no-op.
func (r *DefectRegistry) Remove(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := indexOf(r.labels, label)
	if idx < 0 {
		return nil
	}
	if len(r.labels) == 1 {
		return domain.ErrLastLabel
	}
	r.labels = append(r.labels[:idx], r.labels[idx+1:]...)
	return nil
}

// Has reports whether a label is currently registered.
func (r *DefectRegistry) Has(label string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return indexOf(r.labels, label) >= 0
}

// Verify that DefectRegistry implements domain.DefectRegistry
var _ domain.DefectRegistry = (*DefectRegistry)(nil)
