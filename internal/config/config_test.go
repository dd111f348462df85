package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("ALADIN_TTB_KEY", "ttb")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Provider != "gemini" || cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Unexpected provider/model %s/%s", cfg.Provider, cfg.Model)
	}
	if cfg.GeminiAPIKey != "g-key" || cfg.AladinTTBKey != "ttb" {
		t.Errorf("Expected keys from environment, got %q %q", cfg.GeminiAPIKey, cfg.AladinTTBKey)
	}
	if len(cfg.CoverSources) != 2 {
		t.Errorf("Expected 2 default cover sources, got %d", len(cfg.CoverSources))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paperpharmacy.yaml")
	content := `port: "3000"
provider: ollama
temperature: 0.3
catalog_timeout: 5s
cover_sources:
  - name: openlibrary
    url: https://covers.openlibrary.org/b/isbn/{isbn}-M.jpg?default=false
cors_allowed_origins:
  - https://paperpharmacy.example
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OLLAMA_MODEL", "llama3.1")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Expected port 3000, got %s", cfg.Port)
	}
	if cfg.Model != "llama3.1" {
		t.Errorf("Expected model from OLLAMA_MODEL, got %s", cfg.Model)
	}
	if cfg.CatalogTimeout != 5*time.Second {
		t.Errorf("Expected 5s catalog timeout, got %s", cfg.CatalogTimeout)
	}
	if len(cfg.CoverSources) != 1 || cfg.CoverSources[0].Name != "openlibrary" {
		t.Errorf("Unexpected cover sources %+v", cfg.CoverSources)
	}
	if len(cfg.CORSAllowedOrigins) != 1 {
		t.Errorf("Unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("RECOMMENDER_PROVIDER", "claude")
	_, err := Load("")
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "provider must be one of") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}
