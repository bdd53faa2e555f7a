package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptKey is a type for identifying specific prompts.
type PromptKey string

const (
	// KeyDailyReview is the key for the daily review reconciliation prompt.
	KeyDailyReview PromptKey = "DailyReview"
)

// promptConfig defines the default content and filename for a prompt.
type promptConfig struct {
	defaultContent string
	filename       string
}

// promptRegistry maps a PromptKey to its configuration.
var promptRegistry = map[PromptKey]promptConfig{
	KeyDailyReview: {
		defaultContent: ReviewSystemPrompt,
		filename:       "daily_review_prompt.txt",
	},
}

// GetPrompt searches for a user-provided prompt file in the project's
// templates directory. If found, it returns the content of that file.
// Otherwise, it returns the hardcoded default prompt content.
func GetPrompt(key PromptKey, templatesDir string) (string, error) {
	config, ok := promptRegistry[key]
	if !ok {
		return "", fmt.Errorf("unrecognized prompt key: %s", key)
	}

	if strings.TrimSpace(templatesDir) == "" {
		return config.defaultContent, nil
	}

	customPromptPath := filepath.Join(templatesDir, config.filename)

	if _, err := os.Stat(customPromptPath); err == nil {
		content, readErr := os.ReadFile(customPromptPath)
		if readErr != nil {
			return "", fmt.Errorf("failed to read custom prompt file at %s: %w", customPromptPath, readErr)
		}
		return string(content), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("error checking for custom prompt file at %s: %w", customPromptPath, err)
	}

	return config.defaultContent, nil
}
