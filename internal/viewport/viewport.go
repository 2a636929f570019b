// Package viewport tracks the zoom/pan transform of the currently
// displayed image. Zoom is binary (fit or zoomed at a fixed factor) and
// panning is only possible while zoomed; the transform is transient
// viewing state and resets on every navigation.
package viewport

import (
	"sync"

	"github.com/lewtec/revisor/internal/domain"
)

// DefaultZoomFactor is the zoomed-in scale when none is configured.
const DefaultZoomFactor = 2.0

// Controller is the {Idle, Dragging} x {fit, zoomed} state machine behind
// the interactive image stage.
type Controller struct {
	mu sync.Mutex

	zoomFactor    float64
	width, height float64

	scale  float64
	tx, ty float64

	dragging         bool
	anchorX, anchorY float64

	// moved suppresses the click-toggle that follows a drag, so "drag then
	// release" is not mistaken for "click to zoom". Consumed exactly once.
	moved bool
}

// New creates a fitted controller with the given zoom factor. Factors at
// or below 1 fall back to DefaultZoomFactor.
func New(zoomFactor float64) *Controller {
	if zoomFactor <= 1 {
		zoomFactor = DefaultZoomFactor
	}
	return &Controller{zoomFactor: zoomFactor, scale: 1}
}

// SetBounds records the rendered viewport rectangle used to clamp panning.
func (c *Controller) SetBounds(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = width, height
	c.clampLocked()
}

// ToggleZoom flips between fit and zoomed. A click arriving right after a
// drag-move is swallowed instead. Returning to fit forces the translation
// back to the origin.
func (c *Controller) ToggleZoom() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.moved {
		c.moved = false
		return
	}
	if c.scale == 1 {
		c.scale = c.zoomFactor
		return
	}
	c.scale = 1
	c.tx, c.ty = 0, 0
}

// BeginDrag starts panning from the given pointer position. It reports
// whether a drag actually started; dragging while fitted is invalid.
func (c *Controller) BeginDrag(pointerX, pointerY float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scale == 1 {
		return false
	}
	c.dragging = true
	c.anchorX = pointerX - c.tx
	c.anchorY = pointerY - c.ty
	return true
}

// UpdateDrag moves the pan translation to follow the pointer, clamped so
// the zoomed image keeps covering the viewport.
func (c *Controller) UpdateDrag(pointerX, pointerY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dragging {
		return
	}
	c.tx = pointerX - c.anchorX
	c.ty = pointerY - c.anchorY
	c.clampLocked()
	c.moved = true
}

// EndDrag stops panning. The moved flag stays set until the next click
// consumes it.
func (c *Controller) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = false
}

// Reset returns to the fitted state. Called on every image navigation.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = 1
	c.tx, c.ty = 0, 0
	c.dragging = false
	c.moved = false
}

// State returns the current transform.
func (c *Controller) State() domain.ViewportState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ViewportState{Scale: c.scale, TranslateX: c.tx, TranslateY: c.ty}
}

// clampLocked keeps |translate| within extent*(scale-1)/2 per axis.
// Callers hold the mutex.
func (c *Controller) clampLocked() {
	maxX := c.width * (c.scale - 1) / 2
	maxY := c.height * (c.scale - 1) / 2
	c.tx = clamp(c.tx, -maxX, maxX)
	c.ty = clamp(c.ty, -maxY, maxY)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
