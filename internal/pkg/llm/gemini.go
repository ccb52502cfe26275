package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient uses the Gemini API through the official genai SDK.
type GeminiClient struct {
	Model  string
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client error: %w", err)
	}

	return &GeminiClient{Model: model, client: client}, nil
}

func (c *GeminiClient) Name() string {
	return ProviderGemini
}

func (c *GeminiClient) GenerateText(ctx context.Context, system string, prompt string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 1024,
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.Model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}

	return text, nil
}
