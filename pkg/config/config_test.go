package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.App.Port)
	}
	if cfg.Storage.Root != "./data" {
		t.Fatalf("unexpected storage root %q", cfg.Storage.Root)
	}
	if cfg.Pricing.MarginEUR != "2.00" {
		t.Fatalf("unexpected pricing margin %q", cfg.Pricing.MarginEUR)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected two default CORS origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvAppPort, "9000")
	t.Setenv(EnvStorageRoot, "/var/lib/printforge")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "9000" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if got := cfg.Storage.CartDir(); got != filepath.Join("/var/lib/printforge", "cart") {
		t.Fatalf("unexpected cart dir %q", got)
	}
	if got := cfg.Storage.ProductionDir(); got != filepath.Join("/var/lib/printforge", "production") {
		t.Fatalf("unexpected production dir %q", got)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
