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

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiProvider implements the Provider interface against the Gemini
// generateContent REST API with a constrained JSON response schema.
type GeminiProvider struct {
	apiKey       string
	modelName    string
	systemPrompt string
	timeout      time.Duration
	debug        bool
	baseURL      string
}

// NewGeminiProvider creates a new GeminiProvider with options.
func NewGeminiProvider(apiKey, modelName, systemPrompt string, timeout time.Duration, debug bool) *GeminiProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiProvider{
		apiKey:       apiKey,
		modelName:    modelName,
		systemPrompt: systemPrompt,
		timeout:      timeout,
		debug:        debug,
		baseURL:      geminiBaseURL,
	}
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  map[string]interface{} `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the subset of the generateContent response we read.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// buildReviewSchema returns the Gemini response schema for a suggestion:
// mandatory date and actions, optional summary, closed enums throughout.
func buildReviewSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"date":    map[string]interface{}{"type": "STRING", "description": "The date of the review YYYY-MM-DD"},
			"summary": map[string]interface{}{"type": "STRING", "description": "A very brief encouraging summary of the day in the Target Language"},
			"actions": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"type":   map[string]interface{}{"type": "STRING", "enum": []string{"update_existing", "create_new"}},
						"taskId": map[string]interface{}{"type": "STRING", "description": "UUID of existing task if updating"},
						"title":  map[string]interface{}{"type": "STRING", "description": "Title for new task"},
						"statusChange": map[string]interface{}{
							"type": "STRING",
							"enum": []string{"todo", "in_progress", "done", "dropped"},
						},
						"addActualHours":     map[string]interface{}{"type": "NUMBER", "description": "Hours to ADD to the existing actual total"},
						"initialActualHours": map[string]interface{}{"type": "NUMBER", "description": "Hours spent on this new task"},
						"estimateHours":      map[string]interface{}{"type": "NUMBER", "description": "Retrospective estimate for new task"},
						"category": map[string]interface{}{
							"type": "STRING",
							"enum": []string{"project", "learning", "communication", "misc"},
						},
					},
					"required": []string{"type"},
				},
			},
		},
		"required": []string{"actions", "date"},
	}
}

// AnalyzeReview sends the reflection to Gemini and parses the suggestion.
func (p *GeminiProvider) AnalyzeReview(ctx context.Context, req types.ReviewRequest) (*types.ReviewSuggestion, error) {
	if p.apiKey == "" {
		return nil, types.NewAnalysisError("Gemini API key is not set", nil)
	}

	userMessage, err := buildUserMessage(req)
	if err != nil {
		return nil, types.NewAnalysisError("could not build request", err)
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: p.systemPrompt}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: userMessage}}}},
		GenerationConfig: map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   buildReviewSchema(),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, types.NewAnalysisError("could not encode request", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", p.baseURL, p.modelName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, types.NewAnalysisError("could not create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

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
		fmt.Printf("[LLM] Gemini %s in %v (status %s, bytes %d)\n", p.modelName, time.Since(start), resp.Status, len(raw))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAnalysisError(fmt.Sprintf("Gemini API error (%s)", resp.Status), fmt.Errorf("%s", strings.TrimSpace(string(raw))))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, types.NewAnalysisError("unreadable response body", err)
	}
	if parsed.Error != nil {
		return nil, types.NewAnalysisError("Gemini API error", fmt.Errorf("%d: %s", parsed.Error.Code, parsed.Error.Message))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, types.NewAnalysisError("response contained no candidates", nil)
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	suggestion, err := parseSuggestion(text.String())
	if err != nil {
		return nil, types.NewAnalysisError("unusable suggestion payload", err)
	}
	return suggestion, nil
}
