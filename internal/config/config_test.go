package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("VITE_API_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("APITimeout = %v, want 10s", cfg.APITimeout)
	}
	if len(cfg.ExportDatasets) != 2 || cfg.ExportDatasets[0] != "operadoras" || cfg.ExportDatasets[1] != "demonstracoes" {
		t.Fatalf("unexpected datasets: %#v", cfg.ExportDatasets)
	}
	if cfg.ExportInterval != time.Hour {
		t.Fatalf("ExportInterval = %v", cfg.ExportInterval)
	}
}

func TestLoadAPIURLFromEnv(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com/api")
	t.Setenv("VITE_API_URL", "https://ignored.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://api.example.com/api" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
}

func TestLoadFallsBackToViteAPIURL(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("VITE_API_URL", "https://legacy.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://legacy.example.com" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
}

func TestLoadRejectsRelativeAPIURL(t *testing.T) {
	t.Setenv("API_URL", "/api")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for relative api_url")
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("API_TIMEOUT_MS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Operadoras, ,demonstracoes ")
	if len(got) != 2 || got[0] != "operadoras" || got[1] != "demonstracoes" {
		t.Fatalf("splitList = %#v", got)
	}
}
