package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/ivlev/dsl2video/internal/config"
	"github.com/ivlev/dsl2video/internal/pipeline"
	"github.com/ivlev/dsl2video/internal/server"
	"github.com/ivlev/dsl2video/internal/store"
	"github.com/ivlev/dsl2video/internal/system"
	"github.com/ivlev/dsl2video/internal/translator"
	"github.com/ivlev/dsl2video/internal/video"
)

func main() {
	configPtr := flag.String("config", "", "Path to yaml config")
	listenPtr := flag.String("listen", "", "Listen address (overrides config)")
	dbPtr := flag.String("db", "", "SQLite path (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Default()
	if *configPtr != "" {
		var err error
		cfg, err = config.Load(*configPtr)
		if err != nil {
			logger.Error("config error", "error", err)
			os.Exit(1)
		}
	}
	if *listenPtr != "" {
		cfg.ListenAddr = *listenPtr
	}
	if *dbPtr != "" {
		cfg.DatabasePath = *dbPtr
	}

	system.InitResourceLimits()

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("database error", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	tr := translator.New(logger)

	encoderName := system.GetBestH264Encoder()
	if cfg.VideoEncoder != "" {
		encoderName = cfg.VideoEncoder
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

	srv := server.New(p, tr, st, logger, cfg.MaxConcurrentRenders, cfg.PublicBaseURL)

	logger.Info("starting server",
		"addr", cfg.ListenAddr,
		"encoder", encoderName,
		"host", system.Snapshot().String(),
	)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
