package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/dsl2video/internal/config"
	"github.com/ivlev/dsl2video/internal/pipeline"
	"github.com/ivlev/dsl2video/internal/store"
	"github.com/ivlev/dsl2video/internal/system"
	"github.com/ivlev/dsl2video/internal/translator"
	"github.com/ivlev/dsl2video/internal/video"
)

func main() {
	system.InitResourceLimits()

	inputPtr := flag.String("input", "", "Path to a DSL script (\"-\" reads stdin)")
	promptPtr := flag.String("prompt", "", "Natural-language prompt, translated to DSL")
	outputPtr := flag.String("output", "", "Output mp4 path (auto-generated under output/ when empty)")
	widthPtr := flag.Int("width", 640, "Canvas width")
	heightPtr := flag.Int("height", 360, "Canvas height")
	durationPtr := flag.Float64("duration", 3.0, "Duration hint for prompt translation (seconds)")
	fpsPtr := flag.Int("fps", 24, "FPS hint for prompt translation")
	modelPtr := flag.String("model", "auto", "Translation model: auto, groq, openai, fallback")
	configPtr := flag.String("config", "", "Path to yaml config")
	dbPtr := flag.String("db", "", "SQLite path to save render metadata (disabled when empty)")
	statsPtr := flag.Bool("stats", false, "Print the performance report")
	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		var err error
		cfg, err = config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	tr := translator.New(logger)

	if *inputPtr == "" && *promptPtr == "" {
		log.Fatalf("[-] Error: provide -input or -prompt")
	}

	var st *store.Store
	if *dbPtr != "" {
		var err error
		st, err = store.Open(*dbPtr)
		if err != nil {
			log.Fatalf("[-] Database error: %v", err)
		}
		defer st.Close()
	}

	encoderName := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Hardware encoder detected: %s\n", encoderName)
	}

	p := &pipeline.Pipeline{
		Translator: tr,
		Store:      st,
		Encoder:    &video.FFmpegEncoder{Codec: encoderName},
		Logger:     logger,
		Budget:     cfg.RenderTimeout(),
		Watermark:  cfg.Watermark,
		FontPath:   cfg.FontPath,
	}

	fmt.Printf("[*] Resolution: %dx%d\n", *widthPtr, *heightPtr)

	var res *pipeline.Result
	if *inputPtr != "" {
		script, err := readScript(*inputPtr)
		if err != nil {
			log.Fatalf("[-] Script error: %v", err)
		}
		fmt.Printf("[*] Script: %s\n", *inputPtr)

		res, err = p.GenerateFromDSL(context.Background(), script, *widthPtr, *heightPtr)
		if err != nil {
			log.Fatalf("[-] Render error: %v", err)
		}
	} else {
		var err error
		res, err = p.GenerateFromPrompt(context.Background(), pipeline.PromptRequest{
			Prompt:   *promptPtr,
			Duration: *durationPtr,
			FPS:      *fpsPtr,
			Width:    *widthPtr,
			Height:   *heightPtr,
			Model:    *modelPtr,
		})
		if err != nil {
			log.Fatalf("[-] Render error: %v", err)
		}
		fmt.Printf("[*] Prompt translated via %s:\n%s\n", res.Model, res.DSL)
	}

	outPath := *outputPtr
	if outPath == "" {
		os.MkdirAll("output", 0755)
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		outPath = filepath.Join("output", fmt.Sprintf("animation_%s.mp4", timestamp))
	}

	if err := os.WriteFile(outPath, res.Video, 0644); err != nil {
		log.Fatalf("[-] Write error: %v", err)
	}

	if *statsPtr {
		printStats(res.Stats)
	}

	fmt.Printf("[+++] Success! Result: %s\n", outPath)
}

func readScript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func printStats(s pipeline.Stats) {
	var b strings.Builder
	b.WriteString("--- [PERFORMANCE REPORT] ---\n")
	fmt.Fprintf(&b, "Total Time: %.2fs\n", s.Total.Seconds())
	if s.Translate > 0 {
		fmt.Fprintf(&b, "Translation: %.2fs\n", s.Translate.Seconds())
	}
	fmt.Fprintf(&b, "Parsing: %.3fs\n", s.Parse.Seconds())
	fmt.Fprintf(&b, "Rendering: %.2fs (%d frames)\n", s.Render.Seconds(), s.Frames)
	fmt.Fprintf(&b, "Encoding: %.2fs\n", s.Encode.Seconds())
	fmt.Fprintf(&b, "Host: %s\n", s.Host)
	b.WriteString("----------------------------\n")
	fmt.Print(b.String())
}
