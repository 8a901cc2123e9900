package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers. Providers return the raw
// response text; structural parsing and validation happen in the consumer,
// because the payload is untrusted regardless of provider.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for the LLM classifier.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
