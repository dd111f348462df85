package providers

import (
	"context"
	"errors"
)

var (
	// ErrEmptyResponse is returned when a provider answers without content
	ErrEmptyResponse = errors.New("empty response from provider")
	// ErrMissingAPIKey is wrapped by providers that need a key and have none
	ErrMissingAPIKey = errors.New("API key is not configured")
)

// Schema describes the JSON shape a provider must answer with.
// It is a provider-neutral subset of OpenAPI 3 schema objects.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Schema types
const (
	TypeArray   = "array"
	TypeObject  = "object"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Config represents the configuration for an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// Schema, when set, asks the provider for JSON matching it
	Schema *Schema
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Name() string
	Generate(ctx context.Context, config Config) (string, error)
}
