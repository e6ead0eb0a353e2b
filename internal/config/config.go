package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries service and render settings. Zero values are filled from
// Default; a yaml file overrides defaults, flags override the file.
type Config struct {
	ListenAddr           string  `yaml:"listen_addr"`
	DatabasePath         string  `yaml:"database_path"`
	PublicBaseURL        string  `yaml:"public_base_url"`
	Watermark            string  `yaml:"watermark"`
	FontPath             string  `yaml:"font_path"`
	VideoEncoder         string  `yaml:"video_encoder"`
	RenderTimeoutSec     float64 `yaml:"render_timeout_sec"`
	MaxConcurrentRenders int64   `yaml:"max_concurrent_renders"`
	ShowStats            bool    `yaml:"show_stats"`
}

func Default() Config {
	return Config{
		ListenAddr:           ":5000",
		DatabasePath:         "videos.db",
		PublicBaseURL:        "http://localhost:5000",
		Watermark:            "dsl2video",
		RenderTimeoutSec:     30,
		MaxConcurrentRenders: 2,
	}
}

// Load reads a yaml config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) RenderTimeout() time.Duration {
	return time.Duration(c.RenderTimeoutSec * float64(time.Second))
}
