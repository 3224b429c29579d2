// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"oxyget/internal/consts"
)

// Config holds the application configuration.
type Config struct {
	App        App
	HTTP       HTTP
	Dir        Dir
	Engine     Engine
	DepManager DepManager
}

// App holds application-wide configuration.
type App struct {
	LogLevel string `env:"OXYGET_APP_LOG_LEVEL" envDefault:"info"`
}

// HTTP holds HTTP server configuration.
type HTTP struct {
	Port            string        `env:"OXYGET_HTTP_PORT"             envDefault:":8090"`
	ShutdownTimeout time.Duration `env:"OXYGET_HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Dir holds the configuration root. Settings, auth material, and history
// segments all live under it.
type Dir struct {
	// ConfigRoot defaults to the per-user config directory when empty.
	ConfigRoot string `env:"OXYGET_DIR_CONFIG_ROOT" envDefault:""`
}

// Engine holds media engine configuration.
type Engine struct {
	// Name selects the engine implementation, "ytdlp" or "mock".
	Name string `env:"OXYGET_ENGINE" envDefault:"ytdlp"`
	// JobTimeout bounds a single download end to end.
	JobTimeout time.Duration `env:"OXYGET_ENGINE_JOB_TIMEOUT" envDefault:"2h"`
}

// DepManager holds external binary management configuration.
type DepManager struct {
	Enabled           bool          `env:"OXYGET_DEPMANAGER_ENABLED"             envDefault:"true"`
	UseSystemBinaries bool          `env:"OXYGET_DEPMANAGER_USE_SYSTEM_BINARIES" envDefault:"false"`
	BinDir            string        `env:"OXYGET_DEPMANAGER_BIN_DIR"             envDefault:""`
	CheckInterval     time.Duration `env:"OXYGET_DEPMANAGER_CHECK_INTERVAL"      envDefault:"24h"`

	// Download URL overrides; built-in per-platform defaults apply when empty.
	YTdlpURL      string `env:"OXYGET_DEPMANAGER_YTDLP_URL"       envDefault:""`
	FFmpegURL     string `env:"OXYGET_DEPMANAGER_FFMPEG_URL"      envDefault:""`
	YTdlpSumsURL  string `env:"OXYGET_DEPMANAGER_YTDLP_SUMS_URL"  envDefault:"https://github.com/yt-dlp/yt-dlp/releases/latest/download/SHA2-256SUMS"`
	FFmpegSumsURL string `env:"OXYGET_DEPMANAGER_FFMPEG_SUMS_URL" envDefault:""`
}

// New loads the configuration from environment variables and resolves
// directory defaults.
func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Dir.resolve(); err != nil {
		return nil, fmt.Errorf("resolve dirs: %w", err)
	}

	if cfg.DepManager.BinDir == "" {
		cfg.DepManager.BinDir = filepath.Join(cfg.Dir.ConfigRoot, "bin")
	}

	return cfg, nil
}

func (d *Dir) resolve() error {
	if d.ConfigRoot == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("user config dir: %w", err)
		}

		d.ConfigRoot = filepath.Join(base, consts.AppDirName)
	}

	abs, err := filepath.Abs(d.ConfigRoot)
	if err != nil {
		return fmt.Errorf("config root: %w", err)
	}

	d.ConfigRoot = abs

	return nil
}
