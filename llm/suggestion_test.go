package llm

import (
	"strings"
	"testing"

	"github.com/focusradar/focusradar/types"
)

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "minimal valid payload",
			input: `{"date":"2026-08-31","actions":[]}`,
		},
		{
			name:  "full payload",
			input: `{"date":"2026-08-31","summary":"Nice work.","actions":[{"type":"update_existing","taskId":"abc","statusChange":"done","addActualHours":2},{"type":"create_new","title":"X","category":"misc","estimateHours":1,"initialActualHours":0.5}]}`,
		},
		{
			name:  "markdown fenced payload",
			input: "```json\n{\"date\":\"2026-08-31\",\"actions\":[]}\n```",
		},
		{
			name:    "not json",
			input:   "sorry, I cannot help with that",
			wantErr: true,
		},
		{
			name:    "missing date",
			input:   `{"actions":[]}`,
			wantErr: true,
		},
		{
			name:    "missing actions",
			input:   `{"date":"2026-08-31"}`,
			wantErr: true,
		},
		{
			name:    "unknown action type",
			input:   `{"date":"2026-08-31","actions":[{"type":"delete_task"}]}`,
			wantErr: true,
		},
		{
			name:    "unknown status change",
			input:   `{"date":"2026-08-31","actions":[{"type":"update_existing","statusChange":"finished"}]}`,
			wantErr: true,
		},
		{
			name:    "unknown category",
			input:   `{"date":"2026-08-31","actions":[{"type":"create_new","category":"chores"}]}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			suggestion, err := parseSuggestion(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", suggestion)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if suggestion.Date == "" {
				t.Error("parsed suggestion lost its date")
			}
			if suggestion.Actions == nil {
				t.Error("parsed suggestion lost its actions")
			}
		})
	}
}

func TestParseSuggestionPreservesActionOrder(t *testing.T) {
	input := `{"date":"2026-08-31","actions":[
		{"type":"create_new","title":"one"},
		{"type":"create_new","title":"two"},
		{"type":"create_new","title":"three"}]}`

	suggestion, err := parseSuggestion(input)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"one", "two", "three"}
	for i, title := range want {
		if suggestion.Actions[i].Title != title {
			t.Errorf("action %d title = %q, want %q", i, suggestion.Actions[i].Title, title)
		}
	}
}

func TestBuildUserMessage(t *testing.T) {
	req := types.ReviewRequest{
		Tasks:      []types.TaskContext{{ID: "id-1", Title: "Ship it", Status: "in_progress", Estimate: 3, ActualSoFar: 1}},
		Reflection: "kept pushing on the release",
		Date:       "2026-08-31",
		Language:   "zh",
	}

	msg, err := buildUserMessage(req)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Context Date: 2026-08-31",
		"Chinese (Simplified)",
		`"Ship it"`,
		`"kept pushing on the release"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	req.Language = "en"
	msg, _ = buildUserMessage(req)
	if !strings.Contains(msg, "Target Language: English") {
		t.Errorf("default language should be English:\n%s", msg)
	}
}
