package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ErrNotConfigured is returned when no API key is set; callers treat the feature as disabled.
var ErrNotConfigured = errors.New("llm provider not configured")

type Provider interface {
	Name() string
	GenerateText(ctx context.Context, system string, prompt string) (string, error)
}

type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	switch cfg.Provider {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}
