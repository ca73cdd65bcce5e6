// Package config loads engine configuration from an optional YAML file and
// environment variables, with the environment taking precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the engine.
type Config struct {
	ZoomPxPerSec float64 `yaml:"zoom_px_per_sec"`
	GridSize     float64 `yaml:"grid_size"` // seconds
	SnapEnabled  bool    `yaml:"snap_enabled"`

	FFmpegPath string `yaml:"ffmpeg_path"`

	LogLevel string `yaml:"log_level"`
	LogPath  string `yaml:"log_path"`
}

func defaults() Config {
	return Config{
		ZoomPxPerSec: 50,
		GridSize:     1.0,
		SnapEnabled:  true,
		FFmpegPath:   "ffmpeg",
		LogLevel:     "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then environment variables. A .env file in the working
// directory is loaded first so local setups can keep their environment there.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ZoomPxPerSec = envFloat("EDITOR_ZOOM_PX_PER_SEC", cfg.ZoomPxPerSec)
	cfg.GridSize = envFloat("EDITOR_GRID_SIZE", cfg.GridSize)
	cfg.SnapEnabled = envBool("EDITOR_SNAP", cfg.SnapEnabled)
	cfg.FFmpegPath = envStr("EDITOR_FFMPEG", cfg.FFmpegPath)
	cfg.LogLevel = envStr("EDITOR_LOG_LEVEL", cfg.LogLevel)
	cfg.LogPath = envStr("EDITOR_LOG_PATH", cfg.LogPath)
	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
