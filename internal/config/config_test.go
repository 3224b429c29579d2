package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"oxyget/internal/config"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("OXYGET_DIR_CONFIG_ROOT", t.TempDir())

	cfg, err := config.New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if cfg.App.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want %q", cfg.App.LogLevel, "info")
	}

	if cfg.HTTP.Port != ":8090" {
		t.Errorf("Port = %q; want %q", cfg.HTTP.Port, ":8090")
	}

	if cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v; want %v", cfg.HTTP.ShutdownTimeout, 10*time.Second)
	}

	if cfg.Engine.Name != "ytdlp" {
		t.Errorf("Engine.Name = %q; want %q", cfg.Engine.Name, "ytdlp")
	}

	if !cfg.DepManager.Enabled {
		t.Error("DepManager.Enabled = false; want true")
	}

	want := filepath.Join(cfg.Dir.ConfigRoot, "bin")
	if cfg.DepManager.BinDir != want {
		t.Errorf("DepManager.BinDir = %q; want %q", cfg.DepManager.BinDir, want)
	}
}

func TestNewOverrides(t *testing.T) {
	root := t.TempDir()
	bin := t.TempDir()

	t.Setenv("OXYGET_DIR_CONFIG_ROOT", root)
	t.Setenv("OXYGET_APP_LOG_LEVEL", "debug")
	t.Setenv("OXYGET_HTTP_PORT", ":9000")
	t.Setenv("OXYGET_ENGINE", "mock")
	t.Setenv("OXYGET_DEPMANAGER_BIN_DIR", bin)

	cfg, err := config.New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if cfg.Dir.ConfigRoot != root {
		t.Errorf("ConfigRoot = %q; want %q", cfg.Dir.ConfigRoot, root)
	}

	if cfg.App.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want %q", cfg.App.LogLevel, "debug")
	}

	if cfg.HTTP.Port != ":9000" {
		t.Errorf("Port = %q; want %q", cfg.HTTP.Port, ":9000")
	}

	if cfg.Engine.Name != "mock" {
		t.Errorf("Engine.Name = %q; want %q", cfg.Engine.Name, "mock")
	}

	if cfg.DepManager.BinDir != bin {
		t.Errorf("DepManager.BinDir = %q; want %q", cfg.DepManager.BinDir, bin)
	}
}
