package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiClient implements the Client interface using the Google Gen AI SDK.
type geminiClient struct {
	client *genai.Client
	model  string
}

// newGeminiClient creates a new Gemini client. An API key from Google AI
// Studio is required; without one the SDK falls back to Application Default
// Credentials, which this tool does not manage.
func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiClient{
		client: client,
		model:  model,
	}, nil
}

// Complete sends a single-turn prompt to Gemini and returns the raw text.
func (c *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	content := genai.NewContentFromText(prompt, genai.RoleUser)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{content}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from gemini")
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			result.WriteString(part.Text)
		}
	}

	if result.Len() == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	return result.String(), nil
}
