package llm

import (
	"context"

	"github.com/focusradar/focusradar/types"
)

// Provider defines the interface for the review collaborator: an opaque
// service that reconciles a free-text reflection against the day's tasks and
// returns structured update suggestions.
type Provider interface {
	// AnalyzeReview sends one reflection plus its candidate task context and
	// returns the collaborator's suggestion. Any transport error, timeout or
	// schema-violating payload is returned as a *types.AnalysisError; callers
	// never see partial results.
	AnalyzeReview(ctx context.Context, req types.ReviewRequest) (*types.ReviewSuggestion, error)
}
