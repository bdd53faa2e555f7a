package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/focusradar/focusradar/types"
)

// NewProvider is a factory function that returns an instance of an
// llm.Provider based on the review configuration. systemPrompt is the
// instruction the provider sends with every analysis.
func NewProvider(config *types.ReviewConfig, systemPrompt string) (Provider, error) {
	if config == nil {
		return nil, fmt.Errorf("review configuration cannot be nil")
	}

	timeout := 60 * time.Second
	if config.RequestTimeoutSeconds > 0 {
		timeout = time.Duration(config.RequestTimeoutSeconds) * time.Second
	}

	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	switch provider {
	case "gemini", "":
		if config.APIKey == "" {
			return nil, fmt.Errorf("Gemini provider selected but API key is missing (set review.apiKey or FOCUSRADAR_REVIEW_APIKEY)")
		}
		return NewGeminiProvider(config.APIKey, config.ModelName, systemPrompt, timeout, config.Debug), nil
	case "openai":
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI provider selected but API key is missing (set review.apiKey or FOCUSRADAR_REVIEW_APIKEY)")
		}
		return NewOpenAIProvider(config.APIKey, config.ModelName, systemPrompt, timeout, config.Debug), nil
	default:
		return nil, fmt.Errorf("unsupported review provider: %s", config.Provider)
	}
}
