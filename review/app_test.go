package review

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lewtec/revisor/internal/session"
)

type stubLoader struct{}

func (stubLoader) Fetch(ctx context.Context, url string) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 128, G: 64, B: 32, A: 255})
	return img, nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := DefaultConfig()
	return &App{
		Config:  cfg,
		Log:     zerolog.Nop(),
		Session: session.New(session.WithLoader(stubLoader{})),
	}
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response of %s %s: %v", method, path, err)
	}
	return resp, decoded
}

func TestApp_ReviewFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.GetHTTPHandler())
	defer srv.Close()

	// load a list with one junk line
	resp, err := srv.Client().Post(srv.URL+"/api/load", "text/csv",
		strings.NewReader("\"https://a/1.png\"\nbad-line\nhttps://a/2.png\n"))
	if err != nil {
		t.Fatalf("POST /api/load: %v", err)
	}
	var loaded struct {
		Loaded int `json:"loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loaded); err != nil {
		t.Fatalf("decode load response: %v", err)
	}
	resp.Body.Close()
	if loaded.Loaded != 2 {
		t.Fatalf("loaded = %d, want 2", loaded.Loaded)
	}

	// tag image 1, move forward, tag image 2
	doJSON(t, srv, http.MethodPost, "/api/defect", map[string]any{"label": "Crack", "present": true})
	doJSON(t, srv, http.MethodPost, "/api/navigate", map[string]any{"delta": 1})
	doJSON(t, srv, http.MethodPost, "/api/defect", map[string]any{"label": "Scratch", "present": true})

	_, state := doJSON(t, srv, http.MethodGet, "/api/state", nil)
	if state["counter"] != "2 / 2" {
		t.Errorf("counter = %v, want 2 / 2", state["counter"])
	}

	// export reflects both annotations in load order
	resp, err = srv.Client().Get(srv.URL + "/export")
	if err != nil {
		t.Fatalf("GET /export: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	body := buf.String()
	if !strings.Contains(body, `"https://a/1.png","Crack"`) {
		t.Errorf("export missing row for image 1: %q", body)
	}
	if !strings.Contains(body, `"https://a/2.png","Scratch"`) {
		t.Errorf("export missing row for image 2: %q", body)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "image-audit-") {
		t.Errorf("Content-Disposition = %q, want dated attachment", cd)
	}
}

func TestApp_ErrorMapping(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.GetHTTPHandler())
	defer srv.Close()

	t.Run("empty list is unprocessable", func(t *testing.T) {
		resp, err := srv.Client().Post(srv.URL+"/api/load", "text/csv",
			strings.NewReader("no urls here\n"))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", resp.StatusCode)
		}
	})

	t.Run("export with nothing loaded conflicts", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/export")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("duplicate defect type is unprocessable", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodPost, "/api/types", map[string]any{"label": "Crack"})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", resp.StatusCode)
		}
	})

	t.Run("removing the last type is unprocessable", func(t *testing.T) {
		for _, label := range []string{"Scratch", "Crack"} {
			resp, _ := doJSON(t, srv, http.MethodDelete, "/api/types", map[string]any{"label": label})
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("removing %q: status = %d", label, resp.StatusCode)
			}
		}
		resp, _ := doJSON(t, srv, http.MethodDelete, "/api/types", map[string]any{"label": "Needs Review"})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", resp.StatusCode)
		}
	})

	t.Run("image before decode is not found", func(t *testing.T) {
		fresh := newTestApp(t)
		fsrv := httptest.NewServer(fresh.GetHTTPHandler())
		defer fsrv.Close()
		resp, err := fsrv.Client().Get(fsrv.URL + "/image/current")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestApp_ImageCurrentServesPixels(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.GetHTTPHandler())
	defer srv.Close()

	resp, err := srv.Client().Post(srv.URL+"/api/load", "text/csv",
		strings.NewReader("https://a/1.png\n"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	// decode is asynchronous; poll until the image is ready
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, state := doJSON(t, srv, http.MethodGet, "/api/state", nil)
		if ready, _ := state["image_ready"].(bool); ready {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("image never became ready")
		}
		time.Sleep(5 * time.Millisecond)
	}

	resp, err = srv.Client().Get(srv.URL + "/image/current")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
}

func TestApp_IndexAndHelpRender(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.GetHTTPHandler())
	defer srv.Close()

	for _, path := range []string{"/", "/help"} {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
		if !strings.Contains(buf.String(), "revisor") {
			t.Errorf("GET %s body does not look rendered", path)
		}
	}
}
