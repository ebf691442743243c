package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected development default, got %q", cfg.App.Env)
	}
	if cfg.Storage.Path != "shopfront.db" {
		t.Fatalf("unexpected storage path %q", cfg.Storage.Path)
	}
}

func TestResolveBaseURL_Development(t *testing.T) {
	t.Setenv(EnvAppEnv, AppEnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	url, err := cfg.API.ResolveBaseURL(cfg.App)
	if err != nil {
		t.Fatalf("resolve base url: %v", err)
	}
	if url != "http://localhost:4000/" {
		t.Fatalf("unexpected dev base url %q", url)
	}
}

func TestResolveBaseURL_ProductionRequiresURL(t *testing.T) {
	t.Setenv(EnvAppEnv, AppEnvProd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if _, err := cfg.API.ResolveBaseURL(cfg.App); err == nil {
		t.Fatal("expected missing base url to return an error")
	}

	t.Setenv(EnvAPIBaseURL, "https://shop.example.com/")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	url, err := cfg.API.ResolveBaseURL(cfg.App)
	if err != nil {
		t.Fatalf("resolve base url: %v", err)
	}
	if url != "https://shop.example.com/" {
		t.Fatalf("unexpected base url %q", url)
	}
}
