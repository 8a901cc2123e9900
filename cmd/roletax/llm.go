package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/common"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/config"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/engine"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/llm"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/service"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/taxonomy"
	"github.com/spf13/viper"
)

// loadTaxonomy returns the taxonomy from the configured file, or the built-in
// default when none is configured.
func loadTaxonomy() (*taxonomy.Taxonomy, error) {
	path := viper.GetString("taxonomy.file")
	if path == "" {
		return taxonomy.Default(), nil
	}
	tax, err := taxonomy.LoadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	return tax, nil
}

// createFieldClassifier wires the LLM provider, taxonomy, and term cache into
// a field classifier based on configuration. This function is shared by the
// commands that need classification.
func createFieldClassifier(ctx context.Context, store service.TermStore, tax *taxonomy.Taxonomy) (*llm.FieldClassifier, error) {
	// Read LLM configuration from viper
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "anthropic" // default provider
	}

	// Build config from viper settings
	cfg := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
	}

	// Set defaults if not specified
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 60 // requests per minute
	}

	// Get API key based on provider
	switch provider {
	case "anthropic":
		// Check viper first, then environment variable
		apiKey := viper.GetString("llm.anthropic_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	case "openai":
		apiKey := viper.GetString("llm.openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	case "gemini":
		apiKey := viper.GetString("llm.gemini_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key not found in config or GEMINI_API_KEY environment variable")
		}
		cfg.APIKey = apiKey

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	promptVersion := viper.GetString("llm.prompt_version")

	return llm.NewFieldClassifier(cfg, client, store, tax, promptVersion, slog.Default()), nil
}

// createAggregator builds the weighted aggregator from configuration,
// falling back to the default thresholds and equal field weights.
func createAggregator(tax *taxonomy.Taxonomy) (*engine.Aggregator, error) {
	thresholds := engine.DefaultThresholds()
	if viper.IsSet("aggregation.min_total_score") {
		thresholds.MinTotalScore = viper.GetFloat64("aggregation.min_total_score")
	}
	if viper.IsSet("aggregation.min_margin") {
		thresholds.MinMargin = viper.GetFloat64("aggregation.min_margin")
	}
	if viper.IsSet("aggregation.role_scale") {
		thresholds.RoleScale = viper.GetFloat64("aggregation.role_scale")
	}
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: aggregation thresholds: %v", common.ErrInvalidConfig, err)
	}

	weights := engine.DefaultFieldWeights()
	if viper.IsSet("aggregation.field_weights") {
		configured := viper.GetStringMap("aggregation.field_weights")
		weights = make(engine.FieldWeights, len(configured))
		for field := range configured {
			weights[field] = viper.GetFloat64("aggregation.field_weights." + field)
		}
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("%w: field weights: %v", common.ErrInvalidConfig, err)
	}

	return engine.NewAggregator(tax, weights, thresholds), nil
}
