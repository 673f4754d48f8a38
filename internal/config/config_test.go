package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if cfg.API.BaseURL != DefaultAPIBaseURL {
		t.Fatalf("base url got %q want %q", cfg.API.BaseURL, DefaultAPIBaseURL)
	}
	if cfg.API.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Fatalf("timeout got %d want %d", cfg.API.TimeoutSeconds, DefaultTimeoutSeconds)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level got %q want info", cfg.Log.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[log]\nlevel = \"debug\"\n\n[api]\nbase_url = \"https://example.com/api\"\ntimeout_seconds = 5\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level got %q want debug", cfg.Log.Level)
	}
	if cfg.API.BaseURL != "https://example.com/api" {
		t.Fatalf("base url got %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 5 {
		t.Fatalf("timeout got %d want 5", cfg.API.TimeoutSeconds)
	}
	if cfg.API.EdgeBaseURL != DefaultEdgeBaseURL {
		t.Fatalf("edge base url should keep default, got %q", cfg.API.EdgeBaseURL)
	}
}
