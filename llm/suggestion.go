package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/focusradar/focusradar/types"
)

// parseSuggestion decodes and validates a collaborator payload. The contract
// requires 'date' and 'actions'; everything else is optional. A payload that
// violates the contract is unusable as a whole, no partial recovery is
// attempted.
func parseSuggestion(content string) (*types.ReviewSuggestion, error) {
	content = strings.TrimSpace(content)
	// Some models wrap JSON in a markdown fence despite the response format.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggestion types.ReviewSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion JSON: %w", err)
	}
	if suggestion.Date == "" {
		return nil, fmt.Errorf("suggestion is missing the mandatory 'date' field")
	}
	if suggestion.Actions == nil {
		return nil, fmt.Errorf("suggestion is missing the mandatory 'actions' field")
	}
	for i, action := range suggestion.Actions {
		if !action.Type.IsValid() {
			return nil, fmt.Errorf("action %d has unknown type %q", i, action.Type)
		}
		if action.StatusChange != nil && !action.StatusChange.IsValid() {
			return nil, fmt.Errorf("action %d has unknown statusChange %q", i, *action.StatusChange)
		}
		if action.Category != nil && !action.Category.IsValid() {
			return nil, fmt.Errorf("action %d has unknown category %q", i, *action.Category)
		}
	}
	return &suggestion, nil
}

// buildUserMessage renders the request the way the collaborator expects it:
// context date, target language, the reduced task list and the quoted
// reflection.
func buildUserMessage(req types.ReviewRequest) (string, error) {
	tasksJSON, err := json.MarshalIndent(req.Tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal task context: %w", err)
	}
	language := "English"
	if req.Language == "zh" {
		language = "Chinese (Simplified)"
	}
	return fmt.Sprintf(`Context Date: %s
Target Language: %s

Current Tasks in System:
%s

User's Reflection:
%q

Generate a list of actions to update the system to match reality.`,
		req.Date, language, string(tasksJSON), req.Reflection), nil
}
