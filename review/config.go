package review

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/lewtec/revisor/internal/filter"
	"github.com/lewtec/revisor/internal/session"
	"github.com/lewtec/revisor/internal/store"
	"github.com/lewtec/revisor/internal/viewport"
)

// Config holds the reviewer-facing tunables of the service.
type Config struct {
	Meta struct {
		Description string `yaml:"description"`
	} `yaml:"meta"`

	Listen string `yaml:"listen"`

	// ZoomFactor is the zoomed-in scale of the image stage.
	ZoomFactor float64 `yaml:"zoom_factor"`

	// MaxGammaDimension caps the longer side of the gamma pixel pass.
	MaxGammaDimension int `yaml:"max_gamma_dimension"`

	// DebounceMS is the quiescence window before gamma recomputes.
	DebounceMS int `yaml:"debounce_ms"`

	// FetchTimeoutSeconds bounds one image download.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`

	SliderMin int `yaml:"slider_min"`
	SliderMax int `yaml:"slider_max"`

	// DefectTypes seeds the registry; the reviewer can extend it at runtime.
	DefectTypes []string `yaml:"defect_types"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{
		Listen:              ":8080",
		ZoomFactor:          viewport.DefaultZoomFactor,
		MaxGammaDimension:   filter.DefaultMaxDimension,
		DebounceMS:          int(filter.DefaultDebounce / time.Millisecond),
		FetchTimeoutSeconds: 30,
		SliderMin:           filter.DefaultRangeMin,
		SliderMax:           filter.DefaultRangeMax,
		DefectTypes:         store.DefaultDefectTypes,
		LogLevel:            "info",
	}
	cfg.Meta.Description = "Review a list of images and tag visual defects."
	return cfg
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults.
func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the session cannot run with.
func (c *Config) Validate() error {
	if c.ZoomFactor <= 1 {
		return fmt.Errorf("zoom_factor must be greater than 1, got %v", c.ZoomFactor)
	}
	if len(c.DefectTypes) == 0 {
		return fmt.Errorf("defect_types must contain at least one label")
	}
	if c.SliderMin >= c.SliderMax {
		return fmt.Errorf("slider range [%d, %d] is empty", c.SliderMin, c.SliderMax)
	}
	if c.SliderMin > 100 || c.SliderMax < 100 {
		return fmt.Errorf("slider range [%d, %d] must contain the neutral value 100", c.SliderMin, c.SliderMax)
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative")
	}
	return nil
}

// SessionOptions translates the configuration into session options.
func (c *Config) SessionOptions(log zerolog.Logger) []session.Option {
	return []session.Option{
		session.WithLogger(log),
		session.WithDefectTypes(c.DefectTypes),
		session.WithZoomFactor(c.ZoomFactor),
		session.WithFetchTimeout(time.Duration(c.FetchTimeoutSeconds) * time.Second),
		session.WithPipelineOptions(
			filter.WithLogger(log),
			filter.WithDebounce(time.Duration(c.DebounceMS)*time.Millisecond),
			filter.WithMaxDimension(c.MaxGammaDimension),
			filter.WithRange(c.SliderMin, c.SliderMax),
		),
	}
}
