// Package review serves the reviewer UI and the JSON API on top of the
// session core. It is a thin adapter: every handler translates one UI
// event into a session operation and state back into a response.
package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lewtec/revisor/internal/domain"
	"github.com/lewtec/revisor/internal/session"
)

// maxListBytes bounds an uploaded CSV. Lists are URL-per-line text; 16MB
// is far beyond any plausible review batch.
const maxListBytes = 16 << 20

// App wires the configuration and the review session to HTTP.
type App struct {
	Config  *Config
	Log     zerolog.Logger
	Session *session.Controller
}

// NewApp builds an App and its session from the configuration.
func NewApp(cfg *Config, log zerolog.Logger) *App {
	return &App{
		Config:  cfg,
		Log:     log,
		Session: session.New(cfg.SessionOptions(log)...),
	}
}

// GetHTTPHandler returns the full route table.
func (a *App) GetHTTPHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		data := IndexData{
			Description: a.Config.Meta.Description,
			SliderMin:   a.Config.SliderMin,
			SliderMax:   a.Config.SliderMax,
			ZoomFactor:  a.Config.ZoomFactor,
		}
		if err := RenderIndex(w, data); err != nil {
			a.Log.Error().Err(err).Msg("render index")
		}
	})

	mux.HandleFunc("GET /help", func(w http.ResponseWriter, r *http.Request) {
		if err := RenderHelp(w, a.Config.Meta.Description); err != nil {
			a.Log.Error().Err(err).Msg("render help")
		}
	})

	mux.HandleFunc("POST /api/load", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxListBytes))
		if err != nil {
			a.writeError(w, fmt.Errorf("%w: %v", domain.ErrFileRead, err))
			return
		}
		n, err := a.Session.LoadList(string(raw))
		if err != nil {
			a.writeError(w, err)
			return
		}
		a.writeJSON(w, map[string]any{"loaded": n, "state": a.Session.Snapshot()})
	})

	mux.HandleFunc("POST /api/navigate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Delta int `json:"delta"`
		}
		if !a.readJSON(w, r, &req) {
			return
		}
		a.Session.Navigate(req.Delta)
		a.writeJSON(w, a.Session.Snapshot())
	})

	mux.HandleFunc("GET /api/state", func(w http.ResponseWriter, r *http.Request) {
		a.writeJSON(w, a.Session.Snapshot())
	})

	mux.HandleFunc("POST /api/defect", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Label   string `json:"label"`
			Present bool   `json:"present"`
		}
		if !a.readJSON(w, r, &req) {
			return
		}
		a.Session.SetDefect(req.Label, req.Present)
		a.writeJSON(w, a.Session.Snapshot())
	})

	mux.HandleFunc("POST /api/types", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Label string `json:"label"`
		}
		if !a.readJSON(w, r, &req) {
			return
		}
		if err := a.Session.AddDefectType(req.Label); err != nil {
			a.writeError(w, err)
			return
		}
		a.writeJSON(w, a.Session.Snapshot())
	})

	mux.HandleFunc("DELETE /api/types", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Label string `json:"label"`
		}
		if !a.readJSON(w, r, &req) {
			return
		}
		if err := a.Session.RemoveDefectType(req.Label); err != nil {
			a.writeError(w, err)
			return
		}
		a.writeJSON(w, a.Session.Snapshot())
	})

	mux.HandleFunc("POST /api/filters", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Brightness *int `json:"brightness"`
			Contrast   *int `json:"contrast"`
			Saturation *int `json:"saturation"`
			Gamma      *int `json:"gamma"`
		}
		if !a.readJSON(w, r, &req) {
			return
		}
		if req.Brightness != nil {
			a.Session.SetBrightness(*req.Brightness)
		}
		if req.Contrast != nil {
			a.Session.SetContrast(*req.Contrast)
		}
		if req.Saturation != nil {
			a.Session.SetSaturation(*req.Saturation)
		}
		if req.Gamma != nil {
			a.Session.SetGamma(*req.Gamma)
		}
		a.writeJSON(w, a.Session.Snapshot())
	})

	mux.HandleFunc("POST /api/filters/reset", func(w http.ResponseWriter, r *http.Request) {
		a.Session.ResetFilters()
		a.writeJSON(w, a.Session.Snapshot())
	})

	mux.HandleFunc("POST /api/viewport", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Event  string  `json:"event"`
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		}
		if !a.readJSON(w, r, &req) {
			return
		}
		switch req.Event {
		case "bounds":
			a.Session.SetViewportBounds(req.Width, req.Height)
		case "click":
			a.Session.ToggleZoom()
		case "down":
			a.Session.BeginDrag(req.X, req.Y)
		case "move":
			a.Session.Drag(req.X, req.Y)
		case "up":
			a.Session.EndDrag()
		default:
			http.Error(w, "unknown viewport event", http.StatusBadRequest)
			return
		}
		a.writeJSON(w, a.Session.Snapshot())
	})

	mux.HandleFunc("GET /image/current", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "image/png")
		if err := a.Session.RenderCurrent(w); err != nil {
			http.NotFoundHandler().ServeHTTP(w, r)
		}
	})

	mux.HandleFunc("GET /export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", a.Session.ExportFilename()))
		if err := a.Session.Export(w); err != nil {
			a.writeError(w, err)
		}
	})

	return HTTPLogger(a.Log, mux)
}

func (a *App) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func (a *App) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Log.Error().Err(err).Msg("encode response")
	}
}

// writeError maps the session error taxonomy onto HTTP statuses. Every
// failure stays a non-fatal notification; nothing here ends the session.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrEmptyList),
		errors.Is(err, domain.ErrDuplicateLabel),
		errors.Is(err, domain.ErrEmptyLabel),
		errors.Is(err, domain.ErrLastLabel):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoImages):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrImageDecode):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrFileRead):
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
