package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paperpharmacy/paperpharmacy/internal/covers"
	"github.com/paperpharmacy/paperpharmacy/internal/validation"
)

// Config holds runtime settings. Values come from defaults, then an optional
// YAML file, then environment variables.
type Config struct {
	Port      string `yaml:"port" validate:"required"`
	StaticDir string `yaml:"static_dir"`

	Provider     string        `yaml:"provider" validate:"oneof=gemini openai ollama"`
	Model        string        `yaml:"model"`
	Temperature  float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	ModelTimeout time.Duration `yaml:"model_timeout"`

	GeminiAPIKey  string `yaml:"-"`
	OpenAIAPIKey  string `yaml:"-"`
	OpenAIBaseURL string `yaml:"openai_base_url" validate:"omitempty,url"`
	OllamaURL     string `yaml:"ollama_url" validate:"omitempty,url"`

	AladinTTBKey   string        `yaml:"-"`
	AladinBaseURL  string        `yaml:"aladin_base_url" validate:"omitempty,url"`
	CatalogTimeout time.Duration `yaml:"catalog_timeout"`

	CoverSources []covers.Source `yaml:"cover_sources" validate:"dive"`
	CoverTimeout time.Duration   `yaml:"cover_timeout"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:               "8888",
		StaticDir:          "static",
		Provider:           "gemini",
		Temperature:        1.0,
		ModelTimeout:       60 * time.Second,
		CatalogTimeout:     30 * time.Second,
		CoverSources:       covers.DefaultSources,
		CoverTimeout:       10 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load builds the configuration from path (optional) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	if err := validation.Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.Provider, "RECOMMENDER_PROVIDER")
	setString(&c.GeminiAPIKey, "API_KEY")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.OllamaURL, "OLLAMA_HOST")
	setString(&c.OllamaURL, "OLLAMA_URL")
	setString(&c.AladinTTBKey, "ALADIN_TTB_KEY")
	setString(&c.AladinBaseURL, "ALADIN_BASE_URL")

	switch c.Provider {
	case "gemini":
		setString(&c.Model, "GEMINI_MODEL")
	case "openai":
		setString(&c.Model, "OPENAI_MODEL")
	case "ollama":
		setString(&c.Model, "OLLAMA_MODEL")
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSAllowedOrigins = append(c.CORSAllowedOrigins, o)
			}
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-2.5-flash"
	case "openai":
		return "gpt-4o"
	case "ollama":
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}
