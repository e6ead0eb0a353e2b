// Package pipeline wires the render stages together: script acquisition,
// parsing, frame rasterization, encoding and fire-and-forget persistence.
// Stages run strictly in sequence; each invocation owns its spec,
// registries and frame buffers exclusively.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/ivlev/dsl2video/internal/dsl"
	"github.com/ivlev/dsl2video/internal/renderer"
	"github.com/ivlev/dsl2video/internal/store"
	"github.com/ivlev/dsl2video/internal/system"
	"github.com/ivlev/dsl2video/internal/translator"
	"github.com/ivlev/dsl2video/internal/video"
)

const DefaultBudget = 30 * time.Second

// Pipeline holds the collaborators shared by all renders. Store and
// Translator are optional; a nil Store disables persistence and a nil
// Translator restricts the pipeline to the DSL entrypoint.
type Pipeline struct {
	Translator *translator.Translator
	Store      *store.Store
	Encoder    video.Encoder
	Logger     *slog.Logger
	Budget     time.Duration // wall-clock budget, checked at stage boundaries
	Watermark  string
	FontPath   string
}

// PromptRequest is the natural-language entrypoint's input.
type PromptRequest struct {
	Prompt   string
	Duration float64
	FPS      int
	Width    int
	Height   int
	Model    string
}

// Stats carries per-stage timings for the performance report.
type Stats struct {
	Translate time.Duration
	Parse     time.Duration
	Render    time.Duration
	Encode    time.Duration
	Total     time.Duration
	Frames    int
	Host      system.HostSnapshot
}

// Result is one finished render.
type Result struct {
	Video []byte
	DSL   string
	Model string
	Stats Stats
}

// GenerateFromPrompt translates a prompt to DSL, then compiles and
// renders it. Input hints are clamped into the supported ranges first.
func (p *Pipeline) GenerateFromPrompt(ctx context.Context, req PromptRequest) (*Result, error) {
	start := time.Now()

	req.Duration = clampF(req.Duration, 0.5, dsl.MaxDuration)
	req.FPS = clamp(req.FPS, 1, dsl.MaxFPS)
	req.Width = clamp(req.Width, 320, dsl.MaxWidth)
	req.Height = clamp(req.Height, 180, dsl.MaxHeight)

	translateStart := time.Now()
	script, model := p.Translator.Translate(ctx, translator.Request{
		Prompt:   req.Prompt,
		Duration: req.Duration,
		FPS:      req.FPS,
		Model:    req.Model,
	})
	translateTime := time.Since(translateStart)

	if err := p.checkpoint(start, "script generation"); err != nil {
		return nil, err
	}

	res, err := p.run(ctx, start, script, req.Width, req.Height, req.Prompt, model)
	if err != nil {
		return nil, err
	}
	res.Stats.Translate = translateTime
	res.Stats.Total = time.Since(start)
	return res, nil
}

// GenerateFromDSL compiles and renders a user-authored script.
func (p *Pipeline) GenerateFromDSL(ctx context.Context, script string, width, height int) (*Result, error) {
	start := time.Now()

	width = clamp(width, 320, dsl.MaxWidth)
	height = clamp(height, 180, dsl.MaxHeight)

	res, err := p.run(ctx, start, script, width, height, "", "dsl")
	if err != nil {
		return nil, err
	}
	res.Stats.Total = time.Since(start)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, start time.Time, script string, width, height int, prompt, model string) (*Result, error) {
	parseStart := time.Now()
	spec, err := dsl.Parse(script)
	if err != nil {
		return nil, err
	}
	parseTime := time.Since(parseStart)

	if err := p.checkpoint(start, "parsing"); err != nil {
		return nil, err
	}

	renderStart := time.Now()
	r := renderer.New(spec, width, height, renderer.Options{
		Watermark: p.Watermark,
		FontPath:  p.FontPath,
	})
	frames := r.RenderAll()
	renderTime := time.Since(renderStart)

	encodeStart := time.Now()
	enc := p.Encoder
	if enc == nil {
		enc = &video.FFmpegEncoder{}
	}
	data, encErr := enc.Encode(ctx, frames, spec.FPS)
	encodeTime := time.Since(encodeStart)

	for _, f := range frames {
		system.PutImage(f)
	}
	if encErr != nil {
		return nil, &RenderError{encErr}
	}

	if err := p.checkpoint(start, "rendering"); err != nil {
		return nil, err
	}

	p.saveMetadata(spec, script, data, prompt, model, r.Width(), r.Height())

	return &Result{
		Video: data,
		DSL:   script,
		Model: model,
		Stats: Stats{
			Parse:  parseTime,
			Render: renderTime,
			Encode: encodeTime,
			Frames: len(frames),
			Host:   system.Snapshot(),
		},
	}, nil
}

// saveMetadata persists a successful render. Failures are logged and
// swallowed; they must never turn a finished render into an error.
func (p *Pipeline) saveMetadata(spec *dsl.AnimationSpec, script string, data []byte, prompt, model string, width, height int) {
	if p.Store == nil {
		return
	}

	_, err := p.Store.Save(context.Background(), &store.Video{
		Prompt:    prompt,
		DSLScript: script,
		ModelUsed: model,
		Duration:  spec.Duration,
		FPS:       spec.FPS,
		Width:     width,
		Height:    height,
		Video:     data,
	})
	if err != nil {
		p.logger().Warn("failed to save video metadata", "error", err)
	}
}

// checkpoint enforces the cooperative budget: if it is already spent when
// a stage boundary is reached, the next stage is refused.
func (p *Pipeline) checkpoint(start time.Time, stage string) error {
	budget := p.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	if elapsed := time.Since(start); elapsed > budget {
		return &TimeoutError{Stage: stage, Elapsed: elapsed}
	}
	return nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
