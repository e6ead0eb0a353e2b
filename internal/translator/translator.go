// Package translator turns a natural-language prompt into a DSL animation
// script, either through an OpenAI-compatible chat API (Groq or OpenAI)
// or through a deterministic keyword-template fallback when no API key is
// configured. The output is opaque DSL text; the pipeline parses it like
// any other script.
package translator

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const dslSystemPrompt = `You are a video animation DSL generator. Convert user prompts into a Mini-DSL animation script.

RULES:
1. Output ONLY the DSL script, no explanations
2. Use ONLY these commands:
   - BACKGROUND #RRGGBB
   - TEXT "content" AT x,y SIZE pixels COLOR #RRGGBB [MOVE TO x,y DUR seconds]
   - SHAPE CIRCLE ID name AT x,y RADIUS pixels COLOR #RRGGBB [MOVE TO x,y DUR seconds EASE linear]
   - SHAPE RECT ID name AT x,y WIDTH pixels HEIGHT pixels COLOR #RRGGBB [MOVE TO x,y DUR seconds EASE linear]
   - MOVE object_id TO x,y DUR seconds EASE linear
   - FPS number (max 24)
   - DURATION seconds (max 6)

3. Canvas size is 640x360 pixels
4. All colors must be hex format #RRGGBB
5. Keep animations simple and clean
6. Maximum 6 seconds duration
7. Maximum 24 FPS

EXAMPLE OUTPUT for "bouncing red ball":
BACKGROUND #1a1a2e
FPS 24
DURATION 3
SHAPE CIRCLE ID ball AT 50,180 RADIUS 30 COLOR #FF4444 MOVE TO 590,180 DUR 3 EASE linear

EXAMPLE OUTPUT for "hello world text":
BACKGROUND #202030
FPS 24
DURATION 2
TEXT "Hello World" AT 200,160 SIZE 48 COLOR #FFFFFF MOVE TO 300,160 DUR 2`

const (
	groqEndpoint   = "https://api.groq.com/openai/v1/chat/completions"
	groqModel      = "meta-llama/llama-4-maverick-17b-128e-instruct"
	openaiEndpoint = "https://api.openai.com/v1/chat/completions"
	openaiModel    = "gpt-4o"
)

// Request selects what to translate and with which model. Model is one of
// auto, groq, openai, fallback.
type Request struct {
	Prompt   string
	Duration float64
	FPS      int
	Model    string
}

type Translator struct {
	client    *http.Client
	logger    *slog.Logger
	groqKey   string
	openaiKey string
}

func New(logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
		groqKey:   os.Getenv("GROQ_API_KEY"),
		openaiKey: os.Getenv("OPENAI_API_KEY"),
	}
}

// Translate produces a DSL script and reports which model produced it.
// API failures degrade to the deterministic fallback, never to an error.
func (t *Translator) Translate(ctx context.Context, req Request) (script, model string) {
	model = req.Model
	if model == "" || model == "auto" {
		switch {
		case t.groqKey != "":
			model = "groq"
		case t.openaiKey != "":
			model = "openai"
		default:
			model = "fallback"
		}
	}

	switch {
	case model == "groq" && t.groqKey != "":
		if out, err := t.complete(ctx, groqEndpoint, t.groqKey, groqModel, req); err == nil {
			return out, model
		} else {
			t.logger.Warn("groq translation failed, using fallback", "error", err)
		}
	case model == "openai" && t.openaiKey != "":
		if out, err := t.complete(ctx, openaiEndpoint, t.openaiKey, openaiModel, req); err == nil {
			return out, model
		} else {
			t.logger.Warn("openai translation failed, using fallback", "error", err)
		}
	}

	return generateFallbackDSL(req.Prompt, req.Duration, req.FPS), "fallback"
}

// AvailableModels lists the usable model selectors; fallback is always on.
func (t *Translator) AvailableModels() map[string]bool {
	models := map[string]bool{"fallback": true}
	if t.groqKey != "" {
		models["groq"] = true
	}
	if t.openaiKey != "" {
		models["openai"] = true
	}
	return models
}

// cleanDSLOutput strips a surrounding markdown code fence, which chat
// models add despite the system prompt.
func cleanDSLOutput(content string) string {
	out := strings.TrimSpace(content)
	if !strings.HasPrefix(out, "```") {
		return out
	}

	lines := strings.Split(out, "\n")
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	return strings.Join(lines[1:], "\n")
}
