// Package session orchestrates a review session: which image is current,
// navigation across the loaded list, and the state of the annotation
// store, defect registry, viewport and filter pipeline across
// transitions. All session state lives here explicitly; there are no
// package-level mutables.
package session

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lewtec/revisor/internal/csvio"
	"github.com/lewtec/revisor/internal/domain"
	"github.com/lewtec/revisor/internal/fetch"
	"github.com/lewtec/revisor/internal/filter"
	"github.com/lewtec/revisor/internal/store"
	"github.com/lewtec/revisor/internal/viewport"
)

// ImageLoader downloads and decodes one image. fetch.Loader is the
// production implementation.
type ImageLoader interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// Status is the user-visible status line: a severity level ("info", "ok"
// or "error") and a message.
type Status struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Snapshot is everything the UI adapter needs to render the session.
type Snapshot struct {
	ReviewID   string               `json:"review_id"`
	Counter    string               `json:"counter"`
	Index      int                  `json:"index"`
	Total      int                  `json:"total"`
	URL        string               `json:"url"`
	Labels     []string             `json:"labels"`
	Checked    map[string]bool      `json:"checked"`
	Filters    domain.FilterState   `json:"filters"`
	Viewport   domain.ViewportState `json:"viewport"`
	ImageReady bool                 `json:"image_ready"`
	Status     Status               `json:"status"`
}

// Controller drives the review session.
type Controller struct {
	mu sync.Mutex

	log          zerolog.Logger
	loader       ImageLoader
	fetchTimeout time.Duration

	store    domain.AnnotationStore
	registry domain.DefectRegistry
	viewport *viewport.Controller
	pipeline *filter.Pipeline
	cache    *filter.Cache

	images   []string
	current  int
	reviewID uuid.UUID

	// gen identifies the newest decode request; completions carrying an
	// older generation are discarded so a stale decode can never
	// overwrite a newer image.
	gen        uint64
	imageReady bool
	status     Status
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithLoader replaces the image loader.
func WithLoader(l ImageLoader) Option {
	return func(c *Controller) { c.loader = l }
}

// WithDefectTypes seeds the registry with a custom taxonomy.
func WithDefectTypes(labels []string) Option {
	return func(c *Controller) { c.registry = store.NewDefectRegistry(labels...) }
}

// WithZoomFactor sets the zoomed-in scale.
func WithZoomFactor(z float64) Option {
	return func(c *Controller) { c.viewport = viewport.New(z) }
}

// WithFetchTimeout bounds a single image download.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.fetchTimeout = d }
}

// WithPipelineOptions forwards options to the filter pipeline.
func WithPipelineOptions(opts ...filter.Option) Option {
	return func(c *Controller) { c.pipeline = filter.NewPipeline(c.cache, opts...) }
}

// New creates a Controller with an empty image list and the default
// defect taxonomy.
func New(opts ...Option) *Controller {
	cache := filter.NewCache()
	c := &Controller{
		log:          zerolog.Nop(),
		loader:       fetch.NewLoader(fetch.DefaultTimeout),
		fetchTimeout: fetch.DefaultTimeout,
		store:        store.NewAnnotationStore(),
		registry:     store.NewDefectRegistry(),
		viewport:     viewport.New(viewport.DefaultZoomFactor),
		cache:        cache,
		pipeline:     filter.NewPipeline(cache),
		reviewID:     uuid.New(),
		status:       Status{Level: "info", Message: "No images loaded"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadList replaces the image list with the URLs parsed from CSV text.
// Annotations and the gamma cache are reset, the defect registry is kept.
// Zero parsed entries reject the load and leave the prior session state
// untouched.
func (c *Controller) LoadList(rawText string) (int, error) {
	urls := csvio.ParseList(rawText)
	if len(urls) == 0 {
		return 0, domain.ErrEmptyList
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.images = urls
	c.current = 0
	c.reviewID = uuid.New()
	c.store.ResetAll()
	c.cache.Clear()
	c.viewport.Reset()
	c.pipeline.Clear()
	c.status = Status{Level: "ok", Message: fmt.Sprintf("Loaded %d images", len(urls))}
	c.log.Info().Str("review_id", c.reviewID.String()).Int("images", len(urls)).Msg("list loaded")
	c.startDecodeLocked()
	return len(urls), nil
}

// Navigate advances the current index by delta with wraparound in both
// directions. A no-op on an empty list. Before leaving, the current gamma
// bake is opportunistically cached; after arriving, viewport and filter
// state are reset and the new image's decode starts.
func (c *Controller) Navigate(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.images)
	if n == 0 {
		return
	}
	c.pipeline.BakeNow()
	c.current = ((c.current+delta)%n + n) % n
	c.viewport.Reset()
	c.pipeline.Clear()
	c.status = Status{Level: "info", Message: fmt.Sprintf("Loading image %d / %d", c.current+1, n)}
	c.startDecodeLocked()
}

// startDecodeLocked kicks off the asynchronous decode of the current
// image. Callers hold the mutex.
func (c *Controller) startDecodeLocked() {
	c.gen++
	gen := c.gen
	url := c.images[c.current]
	c.imageReady = false

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
		defer cancel()
		img, err := c.loader.Fetch(ctx, url)

		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			// superseded by a newer navigation; drop the result
			return
		}
		if err != nil {
			c.imageReady = false
			c.pipeline.Clear()
			c.status = Status{Level: "error", Message: fmt.Sprintf("Failed to load %s", url)}
			c.log.Warn().Str("url", url).Err(err).Msg("image decode failed")
			return
		}
		c.pipeline.SetOriginal(url, img)
		c.imageReady = true
		c.status = Status{Level: "ok", Message: fmt.Sprintf("Showing image %d / %d", c.current+1, len(c.images))}
	}()
}

// Current returns the URL of the current image.
func (c *Controller) Current() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.images) == 0 {
		return "", false
	}
	return c.images[c.current], true
}

// SetDefect toggles a label on the current image. Always succeeds; a
// no-op when nothing is loaded.
func (c *Controller) SetDefect(label string, present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.images) == 0 {
		return
	}
	c.store.SetDefect(c.images[c.current], label, present)
}

// Defects returns the labels assigned to the current image.
func (c *Controller) Defects() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.images) == 0 {
		return nil
	}
	return c.store.Defects(c.images[c.current])
}

// AddDefectType adds a label to the registry.
func (c *Controller) AddDefectType(label string) error {
	return c.registry.Add(label)
}

// RemoveDefectType removes a label from the registry and sweeps it out of
// every image's annotations, so annotations never reference a defect type
// that no longer exists.
func (c *Controller) RemoveDefectType(label string) error {
	if err := c.registry.Remove(label); err != nil {
		return err
	}
	c.store.RemoveLabelEverywhere(label)
	return nil
}

// Export writes the audit CSV for the loaded list in load order.
func (c *Controller) Export(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.images) == 0 {
		return domain.ErrNoImages
	}
	return csvio.WriteExport(w, c.store.Rows(c.images))
}

// ExportFilename names the export download after today's date.
func (c *Controller) ExportFilename() string {
	return csvio.ExportFilename(time.Now())
}

// SetBrightness updates the display-layer brightness.
func (c *Controller) SetBrightness(v int) { c.pipeline.SetBrightness(v) }

// SetContrast updates the display-layer contrast.
func (c *Controller) SetContrast(v int) { c.pipeline.SetContrast(v) }

// SetSaturation updates the display-layer saturation.
func (c *Controller) SetSaturation(v int) { c.pipeline.SetSaturation(v) }

// SetGamma updates the gamma percentage; the pixel pass is debounced.
func (c *Controller) SetGamma(v int) { c.pipeline.SetGamma(v) }

// ResetFilters restores neutral filters and invalidates the current
// image's gamma cache entries.
func (c *Controller) ResetFilters() { c.pipeline.Reset() }

// RenderCurrent writes the displayed pixels of the current image as PNG.
func (c *Controller) RenderCurrent(w io.Writer) error {
	img, err := c.pipeline.Render()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// ToggleZoom flips the viewport between fit and zoomed.
func (c *Controller) ToggleZoom() { c.viewport.ToggleZoom() }

// BeginDrag starts panning; invalid while fitted.
func (c *Controller) BeginDrag(x, y float64) bool { return c.viewport.BeginDrag(x, y) }

// Drag moves the pan translation.
func (c *Controller) Drag(x, y float64) { c.viewport.UpdateDrag(x, y) }

// EndDrag stops panning.
func (c *Controller) EndDrag() { c.viewport.EndDrag() }

// SetViewportBounds records the rendered stage rectangle for clamping.
func (c *Controller) SetViewportBounds(w, h float64) { c.viewport.SetBounds(w, h) }

// Snapshot captures the session state for the UI adapter.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		ReviewID:   c.reviewID.String(),
		Index:      c.current,
		Total:      len(c.images),
		Labels:     c.registry.Labels(),
		Checked:    make(map[string]bool),
		Filters:    c.pipeline.State(),
		Viewport:   c.viewport.State(),
		ImageReady: c.imageReady,
		Status:     c.status,
	}
	if len(c.images) == 0 {
		snap.Counter = "0 / 0"
		return snap
	}
	snap.URL = c.images[c.current]
	snap.Counter = fmt.Sprintf("%d / %d", c.current+1, len(c.images))
	for _, label := range c.store.Defects(snap.URL) {
		snap.Checked[label] = true
	}
	return snap
}
