package server

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ivlev/dsl2video/internal/pipeline"
	"github.com/ivlev/dsl2video/internal/translator"
)

type stubEncoder struct{}

func (stubEncoder) Encode(ctx context.Context, frames []*image.RGBA, fps int) ([]byte, error) {
	return []byte("mp4"), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tr := translator.New(nil)
	p := &pipeline.Pipeline{Translator: tr, Encoder: stubEncoder{}}
	return New(p, tr, nil, nil, 2, "http://localhost:5000")
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newTestServer(t).Routes(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestDSLHelp(t *testing.T) {
	rec := doJSON(t, newTestServer(t).Routes(), http.MethodGet, "/dsl-help", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "BACKGROUND") {
		t.Error("help response does not document BACKGROUND")
	}
}

func TestModels(t *testing.T) {
	rec := doJSON(t, newTestServer(t).Routes(), http.MethodGet, "/models", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var models map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &models); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !models["fallback"] {
		t.Error("fallback model missing from /models")
	}
}

func TestGenerateDSL(t *testing.T) {
	body := `{"dsl": "FPS 10\nDURATION 1\nSHAPE CIRCLE ID c AT 100,100 RADIUS 20 COLOR #FF0000"}`
	rec := doJSON(t, newTestServer(t).Routes(), http.MethodPost, "/generate-dsl", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body)
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.OK || resp.VideoBase64 == "" {
		t.Errorf("response = %+v, want ok with video", resp)
	}
}

func TestGenerateDSLBadScript(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown command", `{"dsl": "SPIN everything"}`, http.StatusBadRequest},
		{"validation failure", `{"dsl": "FPS 99"}`, http.StatusBadRequest},
		{"missing dsl", `{}`, http.StatusBadRequest},
		{"broken json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestServer(t).Routes(), http.MethodPost, "/generate-dsl", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tt.want, rec.Body)
			}

			var resp generateResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.OK || resp.Error == "" {
				t.Errorf("error response = %+v, want ok=false with message", resp)
			}
		})
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	rec := doJSON(t, newTestServer(t).Routes(), http.MethodPost, "/generate", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateFromPrompt(t *testing.T) {
	// no API keys in tests, so this exercises the fallback translator
	body := `{"prompt": "a bouncing red ball"}`
	rec := doJSON(t, newTestServer(t).Routes(), http.MethodPost, "/generate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body)
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.OK || resp.VideoBase64 == "" || resp.DSL == "" {
		t.Errorf("response = %+v, want ok with video and script", resp)
	}
}

func TestVideosWithoutStore(t *testing.T) {
	routes := newTestServer(t).Routes()

	rec := doJSON(t, routes, http.MethodGet, "/api/videos", "")
	if rec.Code != http.StatusOK {
		t.Errorf("list status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("list body = %q, want []", got)
	}

	rec = doJSON(t, routes, http.MethodGet, "/api/videos/1/download", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("download status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, routes, http.MethodDelete, "/api/videos/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete status = %d, want 404", rec.Code)
	}
}
