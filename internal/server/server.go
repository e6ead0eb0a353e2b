// Package server exposes the render pipeline over HTTP: prompt and DSL
// generation endpoints plus the stored-video gallery. Script and
// validation faults map to 400, render and environment faults to 500.
package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/semaphore"

	"github.com/ivlev/dsl2video/internal/dsl"
	"github.com/ivlev/dsl2video/internal/pipeline"
	"github.com/ivlev/dsl2video/internal/store"
	"github.com/ivlev/dsl2video/internal/system"
	"github.com/ivlev/dsl2video/internal/translator"
)

// Server handles the HTTP surface. The semaphore caps how many renders
// run at once; requests over the cap queue until a slot frees up.
type Server struct {
	pipeline   *pipeline.Pipeline
	translator *translator.Translator
	store      *store.Store
	logger     *slog.Logger
	renders    *semaphore.Weighted
	baseURL    string
}

func New(p *pipeline.Pipeline, t *translator.Translator, s *store.Store, logger *slog.Logger, maxConcurrent int64, baseURL string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Server{
		pipeline:   p,
		translator: t,
		store:      s,
		logger:     logger,
		renders:    semaphore.NewWeighted(maxConcurrent),
		baseURL:    baseURL,
	}
}

// Routes builds the chi router for the whole API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/generate", s.handleGenerate)
	r.Post("/generate-dsl", s.handleGenerateDSL)
	r.Get("/models", s.handleModels)
	r.Get("/health", s.handleHealth)
	r.Get("/dsl-help", s.handleDSLHelp)

	r.Get("/api/videos", s.handleListVideos)
	r.Get("/api/videos/{id}/download", s.handleDownload)
	r.Get("/api/videos/{id}/qr", s.handleShareQR)
	r.Delete("/api/videos/{id}", s.handleDelete)

	return r
}

type generateRequest struct {
	Prompt   string  `json:"prompt"`
	Duration float64 `json:"duration"`
	FPS      int     `json:"fps"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Model    string  `json:"model"`
}

type dslRequest struct {
	DSL    string `json:"dsl"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type generateResponse struct {
	OK          bool   `json:"ok"`
	VideoBase64 string `json:"video_base64,omitempty"`
	DSL         string `json:"dsl,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		s.writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	applyGenerateDefaults(&req)

	if err := s.renders.Acquire(r.Context(), 1); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "server busy")
		return
	}
	defer s.renders.Release(1)

	res, err := s.pipeline.GenerateFromPrompt(r.Context(), pipeline.PromptRequest{
		Prompt:   req.Prompt,
		Duration: req.Duration,
		FPS:      req.FPS,
		Width:    req.Width,
		Height:   req.Height,
		Model:    req.Model,
	})
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{
		OK:          true,
		VideoBase64: base64.StdEncoding.EncodeToString(res.Video),
		DSL:         res.DSL,
	})
}

func (s *Server) handleGenerateDSL(w http.ResponseWriter, r *http.Request) {
	var req dslRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DSL == "" {
		s.writeError(w, http.StatusBadRequest, "dsl is required")
		return
	}
	if req.Width == 0 {
		req.Width = 640
	}
	if req.Height == 0 {
		req.Height = 360
	}

	if err := s.renders.Acquire(r.Context(), 1); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "server busy")
		return
	}
	defer s.renders.Release(1)

	res, err := s.pipeline.GenerateFromDSL(r.Context(), req.DSL, req.Width, req.Height)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{
		OK:          true,
		VideoBase64: base64.StdEncoding.EncodeToString(res.Video),
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.translator.AvailableModels())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"host":   system.Snapshot(),
	})
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, http.StatusOK, []any{})
		return
	}

	videos, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list videos failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not list videos")
		return
	}

	type item struct {
		ID          int64   `json:"id"`
		Prompt      string  `json:"prompt"`
		ModelUsed   string  `json:"model_used"`
		Duration    float64 `json:"duration"`
		FPS         int     `json:"fps"`
		CreatedAt   string  `json:"created_at"`
		VideoBase64 string  `json:"video_base64"`
	}
	out := make([]item, 0, len(videos))
	for _, v := range videos {
		out = append(out, item{
			ID:          v.ID,
			Prompt:      v.Prompt,
			ModelUsed:   v.ModelUsed,
			Duration:    v.Duration,
			FPS:         v.FPS,
			CreatedAt:   v.CreatedAt.Format(time.RFC3339),
			VideoBase64: base64.StdEncoding.EncodeToString(v.Video),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookupVideo(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=video_%d.mp4", v.ID))
	w.Write(v.Video)
}

func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookupVideo(w, r)
	if !ok {
		return
	}

	url := fmt.Sprintf("%s/api/videos/%d/download", s.baseURL, v.ID)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		s.logger.Error("qr encode failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "video not found")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	switch err := s.store.Delete(r.Context(), id); {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "video not found")
	case err != nil:
		s.logger.Error("delete video failed", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not delete video")
	default:
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (s *Server) lookupVideo(w http.ResponseWriter, r *http.Request) (*store.Video, bool) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "video not found")
		return nil, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid video id")
		return nil, false
	}

	v, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "video not found")
		return nil, false
	}
	if err != nil {
		s.logger.Error("get video failed", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not load video")
		return nil, false
	}
	return v, true
}

func applyGenerateDefaults(req *generateRequest) {
	if req.Duration == 0 {
		req.Duration = 3.0
	}
	if req.FPS == 0 {
		req.FPS = 24
	}
	if req.Width == 0 {
		req.Width = 640
	}
	if req.Height == 0 {
		req.Height = 360
	}
	if req.Model == "" {
		req.Model = "auto"
	}
}

// writePipelineError maps the error taxonomy onto HTTP statuses: script
// faults are the caller's, everything else is ours.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var parseErr *dsl.ParseError
	var validationErr *dsl.ValidationError
	if errors.As(err, &parseErr) || errors.As(err, &validationErr) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Error("render failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, generateResponse{OK: false, Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}
