package llm

import (
	"testing"

	"github.com/focusradar/focusradar/types"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   *types.ReviewConfig
		wantType interface{}
		wantErr  bool
	}{
		{"nil config", nil, nil, true},
		{"default is gemini", &types.ReviewConfig{APIKey: "k"}, &GeminiProvider{}, false},
		{"explicit gemini", &types.ReviewConfig{Provider: "gemini", APIKey: "k"}, &GeminiProvider{}, false},
		{"openai", &types.ReviewConfig{Provider: "openai", APIKey: "k"}, &OpenAIProvider{}, false},
		{"case insensitive", &types.ReviewConfig{Provider: " OpenAI ", APIKey: "k"}, &OpenAIProvider{}, false},
		{"missing key", &types.ReviewConfig{Provider: "gemini"}, nil, true},
		{"unknown provider", &types.ReviewConfig{Provider: "llama", APIKey: "k"}, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider, err := NewProvider(tc.config, "prompt")
			if tc.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch tc.wantType.(type) {
			case *GeminiProvider:
				if _, ok := provider.(*GeminiProvider); !ok {
					t.Errorf("got %T, want *GeminiProvider", provider)
				}
			case *OpenAIProvider:
				if _, ok := provider.(*OpenAIProvider); !ok {
					t.Errorf("got %T, want *OpenAIProvider", provider)
				}
			}
		})
	}
}
