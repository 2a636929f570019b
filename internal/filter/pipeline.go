// Package filter computes the pixels actually shown for the current
// image. Brightness, contrast and saturation are cheap display-layer
// adjustments reapplied on every render and never baked into stored
// pixels; gamma is a true per-pixel remap of the original decoded image,
// debounced against rapid slider input and cached per (image, value).
package filter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/lewtec/revisor/internal/domain"
)

const (
	// DefaultDebounce is the quiescence window before an expensive gamma
	// recomputation fires; intermediate slider values are discarded.
	DefaultDebounce = 80 * time.Millisecond

	// DefaultMaxDimension caps the longer side of the gamma pass input.
	DefaultMaxDimension = 2000

	// Slider range for all four parameters.
	DefaultRangeMin = 0
	DefaultRangeMax = 200
)

// Pipeline owns the filter state, the debounce timer and the gamma cache
// interaction for the currently displayed image.
type Pipeline struct {
	mu sync.Mutex

	log      zerolog.Logger
	cache    *Cache
	debounce time.Duration
	maxDim   int
	rangeMin int
	rangeMax int

	state domain.FilterState

	url       string
	original  image.Image
	displayed image.Image // original, or the latest gamma bake

	timer *time.Timer
	// gen invalidates in-flight bakes when the image or the gamma value
	// moves on before the debounce fires or the pixel pass finishes.
	gen uint64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDebounce overrides the gamma debounce window.
func WithDebounce(d time.Duration) Option {
	return func(p *Pipeline) { p.debounce = d }
}

// WithMaxDimension overrides the gamma pass resolution cap.
func WithMaxDimension(n int) Option {
	return func(p *Pipeline) { p.maxDim = n }
}

// WithRange overrides the slider value range.
func WithRange(min, max int) Option {
	return func(p *Pipeline) { p.rangeMin, p.rangeMax = min, max }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// NewPipeline creates a Pipeline backed by the given gamma cache.
func NewPipeline(cache *Cache, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:      zerolog.Nop(),
		cache:    cache,
		debounce: DefaultDebounce,
		maxDim:   DefaultMaxDimension,
		rangeMin: DefaultRangeMin,
		rangeMax: DefaultRangeMax,
		state:    domain.DefaultFilters(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetOriginal installs the decoded image the pipeline works on and resets
// the filter state to defaults, as happens on every navigation. Any
// pending gamma work for the previous image is superseded.
func (p *Pipeline) SetOriginal(url string, img image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.supersedeLocked()
	p.url = url
	p.original = img
	p.displayed = img
	p.state = domain.DefaultFilters()
}

// Clear drops the current image, used when a decode fails.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.supersedeLocked()
	p.url = ""
	p.original = nil
	p.displayed = nil
	p.state = domain.DefaultFilters()
}

// State returns the current filter parameters.
func (p *Pipeline) State() domain.FilterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetBrightness updates the display-layer brightness percentage.
func (p *Pipeline) SetBrightness(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Brightness = p.clampValue(v)
}

// SetContrast updates the display-layer contrast percentage.
func (p *Pipeline) SetContrast(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Contrast = p.clampValue(v)
}

// SetSaturation updates the display-layer saturation percentage.
func (p *Pipeline) SetSaturation(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Saturation = p.clampValue(v)
}

// SetGamma updates the gamma percentage. A value of 100 reverts the
// displayed pixels to the untouched original immediately; any other value
// schedules the pixel pass after the debounce window, replacing whatever
// was pending.
func (p *Pipeline) SetGamma(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v = p.clampValue(v)
	p.supersedeLocked()
	p.state.Gamma = v

	if v == 100 {
		p.displayed = p.original
		return
	}
	if p.original == nil {
		return
	}

	gen, url := p.gen, p.url
	p.timer = time.AfterFunc(p.debounce, func() {
		p.bake(gen, url, v)
	})
}

// BakeNow synchronously makes sure the current gamma result is cached.
// Used opportunistically before navigating away from an image.
func (p *Pipeline) BakeNow() {
	p.mu.Lock()
	url, gamma, src := p.url, p.state.Gamma, p.original
	p.mu.Unlock()

	if src == nil || gamma == 100 {
		return
	}
	if _, ok := p.cache.Get(url, gamma); ok {
		return
	}
	if data, err := encodePNG(Apply(src, gamma, p.maxDim)); err == nil {
		p.cache.Put(url, gamma, data)
	}
}

// Reset restores the neutral filter state, reverts the displayed pixels
// to the original and invalidates this image's cache entries, so a later
// gamma change recomputes instead of trusting a possibly stale bake.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.supersedeLocked()
	p.state = domain.DefaultFilters()
	p.displayed = p.original
	if p.url != "" {
		p.cache.InvalidateImage(p.url)
	}
}

// Render produces the displayed pixels: the current gamma bake (or the
// original when gamma is neutral or still pending) with the cheap
// display-layer adjustments composed on top. The slider range [0,200]
// maps linearly onto the adjustment range [-100,100].
func (p *Pipeline) Render() (image.Image, error) {
	p.mu.Lock()
	src := p.displayed
	st := p.state
	p.mu.Unlock()

	if src == nil {
		return nil, fmt.Errorf("%w: no decoded image", domain.ErrImageDecode)
	}

	out := imaging.Clone(src)
	if st.Brightness != 100 {
		out = imaging.AdjustBrightness(out, float64(st.Brightness-100)/2)
	}
	if st.Contrast != 100 {
		out = imaging.AdjustContrast(out, float64(st.Contrast-100)/2)
	}
	if st.Saturation != 100 {
		out = imaging.AdjustSaturation(out, float64(st.Saturation-100))
	}
	return out, nil
}

// bake runs the debounced gamma pass. Completions whose generation or URL
// no longer match the pipeline are discarded, never applied.
func (p *Pipeline) bake(gen uint64, url string, gamma int) {
	p.mu.Lock()
	if gen != p.gen || url != p.url {
		p.mu.Unlock()
		return
	}
	src := p.original
	p.mu.Unlock()

	if src == nil {
		p.log.Warn().Str("url", url).Err(domain.ErrGammaCompute).Msg("gamma pass skipped")
		return
	}

	var out image.Image
	if data, ok := p.cache.Get(url, gamma); ok {
		if img, err := png.Decode(bytes.NewReader(data)); err == nil {
			out = img
		}
	}
	if out == nil {
		corrected := Apply(src, gamma, p.maxDim)
		data, err := encodePNG(corrected)
		if err != nil {
			p.log.Warn().Str("url", url).Err(domain.ErrGammaCompute).Msg("gamma result could not be encoded")
			return
		}
		p.cache.Put(url, gamma, data)
		out = corrected
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || url != p.url {
		return
	}
	p.displayed = out
}

// supersedeLocked cancels pending gamma work. Callers hold the mutex.
func (p *Pipeline) supersedeLocked() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Pipeline) clampValue(v int) int {
	if v < p.rangeMin {
		return p.rangeMin
	}
	if v > p.rangeMax {
		return p.rangeMax
	}
	return v
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
