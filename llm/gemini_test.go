package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/focusradar/focusradar/types"
)

func geminiBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			},
			"finishReason": "STOP",
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestGeminiProviderAnalyzeReview(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write(geminiBody(t, `{"date":"2026-08-31","summary":"Great.","actions":[{"type":"create_new","title":"X"}]}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider("test-key", "gemini-2.5-flash", "system prompt here", 10*time.Second, false)
	provider.baseURL = server.URL

	suggestion, err := provider.AnalyzeReview(context.Background(), types.ReviewRequest{
		Reflection: "a day", Date: "2026-08-31", Language: "en",
		Tasks: []types.TaskContext{},
	})
	if err != nil {
		t.Fatalf("AnalyzeReview failed: %v", err)
	}

	if gotPath != "/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "system prompt here" {
		t.Error("system instruction not sent")
	}
	if gotBody.GenerationConfig["responseMimeType"] != "application/json" {
		t.Error("constrained JSON output not requested")
	}
	if _, ok := gotBody.GenerationConfig["responseSchema"]; !ok {
		t.Error("response schema not sent")
	}

	if suggestion.Summary != "Great." || len(suggestion.Actions) != 1 {
		t.Errorf("suggestion = %+v", suggestion)
	}
}

func TestGeminiProviderHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429,"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewGeminiProvider("k", "", "p", 0, false)
	provider.baseURL = server.URL

	_, err := provider.AnalyzeReview(context.Background(), types.ReviewRequest{Date: "2026-08-31"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, types.ErrAnalysisFailed) {
		t.Errorf("HTTP failure should map to ErrAnalysisFailed, got %v", err)
	}
}

func TestGeminiProviderUnusablePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiBody(t, `{"summary":"missing mandatory fields"}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider("k", "", "p", 0, false)
	provider.baseURL = server.URL

	_, err := provider.AnalyzeReview(context.Background(), types.ReviewRequest{Date: "2026-08-31"})
	if !errors.Is(err, types.ErrAnalysisFailed) {
		t.Errorf("contract-violating payload should map to ErrAnalysisFailed, got %v", err)
	}
}

func TestGeminiProviderNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider("k", "", "p", 0, false)
	provider.baseURL = server.URL

	_, err := provider.AnalyzeReview(context.Background(), types.ReviewRequest{Date: "2026-08-31"})
	if !errors.Is(err, types.ErrAnalysisFailed) {
		t.Errorf("empty candidate list should map to ErrAnalysisFailed, got %v", err)
	}
}

func TestGeminiProviderMissingAPIKey(t *testing.T) {
	provider := NewGeminiProvider("", "", "p", 0, false)
	_, err := provider.AnalyzeReview(context.Background(), types.ReviewRequest{Date: "2026-08-31"})
	if !errors.Is(err, types.ErrAnalysisFailed) {
		t.Errorf("missing key should map to ErrAnalysisFailed, got %v", err)
	}
}

func TestGeminiProviderDefaults(t *testing.T) {
	provider := NewGeminiProvider("k", "", "p", 0, false)
	if provider.modelName != "gemini-2.5-flash" {
		t.Errorf("default model = %q", provider.modelName)
	}
	if provider.timeout != 60*time.Second {
		t.Errorf("default timeout = %v", provider.timeout)
	}
}
