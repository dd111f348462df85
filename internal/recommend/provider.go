package recommend

import (
	"fmt"

	"github.com/paperpharmacy/paperpharmacy/internal/catalog"
	"github.com/paperpharmacy/paperpharmacy/internal/config"
	"github.com/paperpharmacy/paperpharmacy/internal/covers"
	"github.com/paperpharmacy/paperpharmacy/internal/gemini"
	"github.com/paperpharmacy/paperpharmacy/internal/ollama"
	"github.com/paperpharmacy/paperpharmacy/internal/openai"
	"github.com/paperpharmacy/paperpharmacy/internal/providers"
)

// NewProvider returns the LLM provider selected in cfg
func NewProvider(cfg config.Config) (providers.Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.New(cfg.GeminiAPIKey), nil
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), nil
	case "ollama":
		return ollama.New(cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// New wires an Assembler from configuration
func New(cfg config.Config) (*Assembler, *catalog.Client, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	cat := catalog.NewClient(cfg.AladinBaseURL, cfg.AladinTTBKey, cfg.CatalogTimeout)
	resolver := covers.NewResolver(cfg.CoverSources, cfg.CoverTimeout)

	return NewAssembler(provider, cat, resolver, Options{
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		ModelTimeout: cfg.ModelTimeout,
	}), cat, nil
}
