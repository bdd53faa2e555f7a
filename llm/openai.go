package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/focusradar/focusradar/types"
)

const openAIResponsesURL = "https://api.openai.com/v1/responses"

// OpenAIProvider implements the Provider interface against the OpenAI
// Responses API with a strict JSON schema output format.
type OpenAIProvider struct {
	apiKey       string
	modelName    string
	systemPrompt string
	timeout      time.Duration
	debug        bool
	url          string
}

// NewOpenAIProvider creates a new OpenAIProvider with options.
func NewOpenAIProvider(apiKey, modelName, systemPrompt string, timeout time.Duration, debug bool) *OpenAIProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		apiKey:       apiKey,
		modelName:    modelName,
		systemPrompt: systemPrompt,
		timeout:      timeout,
		debug:        debug,
		url:          openAIResponsesURL,
	}
}

// buildReviewJSONSchema is the strict-schema variant of the suggestion
// contract for the Responses API. Strict mode requires every property to be
// listed as required, so optional fields are expressed as nullable.
func buildReviewJSONSchema() map[string]interface{} {
	nullable := func(t string) map[string]interface{} {
		return map[string]interface{}{"type": []string{t, "null"}}
	}
	nullableEnum := func(values ...string) map[string]interface{} {
		return map[string]interface{}{"type": []string{"string", "null"}, "enum": values}
	}
	action := map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"type":               map[string]interface{}{"type": "string", "enum": []string{"update_existing", "create_new"}},
			"taskId":             nullable("string"),
			"title":              nullable("string"),
			"statusChange":       nullableEnum("todo", "in_progress", "done", "dropped"),
			"addActualHours":     nullable("number"),
			"initialActualHours": nullable("number"),
			"estimateHours":      nullable("number"),
			"category":           nullableEnum("project", "learning", "communication", "misc"),
		},
		"required": []string{"type", "taskId", "title", "statusChange", "addActualHours", "initialActualHours", "estimateHours", "category"},
	}
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"date":    map[string]interface{}{"type": "string"},
			"summary": nullable("string"),
			"actions": map[string]interface{}{"type": "array", "items": action},
		},
		"required": []string{"date", "summary", "actions"},
	}
}

// AnalyzeReview sends the reflection to OpenAI and parses the suggestion.
func (p *OpenAIProvider) AnalyzeReview(ctx context.Context, req types.ReviewRequest) (*types.ReviewSuggestion, error) {
	if p.apiKey == "" {
		return nil, types.NewAnalysisError("OpenAI API key is not set", nil)
	}

	userMessage, err := buildUserMessage(req)
	if err != nil {
		return nil, types.NewAnalysisError("could not build request", err)
	}

	payload := map[string]interface{}{
		"model": p.modelName,
		"input": []map[string]interface{}{
			{
				"role":    "system",
				"content": []map[string]interface{}{{"type": "input_text", "text": p.systemPrompt}},
			},
			{
				"role":    "user",
				"content": []map[string]interface{}{{"type": "input_text", "text": userMessage}},
			},
		},
		"text": map[string]interface{}{
			"format": map[string]interface{}{
				"type":   "json_schema",
				"name":   "daily_review",
				"schema": buildReviewJSONSchema(),
				"strict": true,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, types.NewAnalysisError("could not encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, types.NewAnalysisError("could not create request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: p.timeout}
	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		if strings.Contains(err.Error(), "context deadline exceeded") || strings.Contains(err.Error(), "Client.Timeout exceeded") {
			return nil, types.NewAnalysisError(fmt.Sprintf("request timed out after %v", p.timeout), err)
		}
		return nil, types.NewAnalysisError("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	if p.debug {
		fmt.Printf("[LLM] OpenAI Responses %s in %v (status %s, bytes %d)\n", p.modelName, time.Since(start), resp.Status, len(raw))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAnalysisError(fmt.Sprintf("OpenAI API error (%s)", resp.Status), fmt.Errorf("%s", strings.TrimSpace(string(raw))))
	}

	content, err := extractResponsesText(raw)
	if err != nil {
		return nil, types.NewAnalysisError("unreadable response body", err)
	}

	suggestion, err := parseSuggestion(content)
	if err != nil {
		return nil, types.NewAnalysisError("unusable suggestion payload", err)
	}
	return suggestion, nil
}

// extractResponsesText pulls the generated text out of a Responses API body,
// trying the aggregated output_text field first and the output array second.
func extractResponsesText(raw []byte) (string, error) {
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}

	if ot, ok := generic["output_text"].(string); ok && strings.TrimSpace(ot) != "" {
		return ot, nil
	}

	if outputs, ok := generic["output"].([]interface{}); ok {
		for _, output := range outputs {
			outputObj, ok := output.(map[string]interface{})
			if !ok {
				continue
			}
			if t, ok := outputObj["type"].(string); ok && t == "message" {
				if contents, ok := outputObj["content"].([]interface{}); ok && len(contents) > 0 {
					if c0, ok := contents[0].(map[string]interface{}); ok {
						if txt, ok := c0["text"].(string); ok && txt != "" {
							return txt, nil
						}
					}
				}
			}
		}
	}

	return "", fmt.Errorf("no recognizable content fields in response")
}
