package store

import (
	"strings"
	"sync"

	"github.com/lewtec/revisor/internal/domain"
)

// labelSeparator joins an image's defect labels in export rows.
const labelSeparator = "; "

// AnnotationStore implements domain.AnnotationStore with an in-memory map
// from image URL to its insertion-ordered label set. The session is the
// only persistence layer: annotations live until the next CSV load or
// until exported.
type AnnotationStore struct {
	mu      sync.RWMutex
	defects map[string][]string
}

// NewAnnotationStore creates an empty AnnotationStore.
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{
		defects: make(map[string][]string),
	}
}

// SetDefect adds or removes a label on an image. Both directions are
// idempotent and never fail.
func (s *AnnotationStore) SetDefect(url, label string, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	labels := s.defects[url]
	idx := indexOf(labels, label)
	if present {
		if idx >= 0 {
			return
		}
		s.defects[url] = append(labels, label)
		return
	}
	if idx < 0 {
		return
	}
	s.defects[url] = append(labels[:idx], labels[idx+1:]...)
}

// Defects returns a copy of the labels assigned to an image in insertion
// order. Unseen images yield an empty slice.
func (s *AnnotationStore) Defects(url string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	labels := s.defects[url]
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// RemoveLabelEverywhere removes a label from every image's set.
func (s *AnnotationStore) RemoveLabelEverywhere(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for url, labels := range s.defects {
		if idx := indexOf(labels, label); idx >= 0 {
			s.defects[url] = append(labels[:idx], labels[idx+1:]...)
		}
	}
}

// ResetAll clears the whole store.
func (s *AnnotationStore) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defects = make(map[string][]string)
}

// Rows produces export rows for the given images in that order. Images
// without annotations get an empty defect field.
func (s *AnnotationStore) Rows(order []string) []domain.ExportRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.ExportRow, len(order))
	for i, url := range order {
		rows[i] = domain.ExportRow{
			URL:     url,
			Defects: strings.Join(s.defects[url], labelSeparator),
		}
	}
	return rows
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Verify that AnnotationStore implements domain.AnnotationStore
var _ domain.AnnotationStore = (*AnnotationStore)(nil)
