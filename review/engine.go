// Package review turns a free-text reflection about the day into a set of
// structured task mutations. It owns the three-state review flow: a
// reflection is analyzed by an external collaborator, the resulting
// suggestion is shown with every action pre-accepted, and the approved
// subset is materialized into one store batch.
package review

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/focusradar/focusradar/llm"
	"github.com/focusradar/focusradar/models"
	"github.com/focusradar/focusradar/store"
	"github.com/focusradar/focusradar/types"
	"github.com/google/uuid"
)

// State is the review flow state.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateSuggested State = "suggested"
)

// DefaultTitle is used for a create_new action that arrives without one.
const DefaultTitle = "Untitled Task"

// ApplyResult reports what an Apply pass did.
type ApplyResult struct {
	Updated int // update_existing actions materialized
	Created int // create_new actions materialized
	Skipped int // accepted update_existing actions whose taskId did not resolve
}

// Engine reconciles reflections against the task collection. It is owned and
// injected explicitly; one engine serves one session. Methods are safe for
// concurrent use: the UI runs Analyze on its own goroutine while Abandon may
// arrive from the event loop. The collaborator call itself happens outside
// the lock so Abandon is never blocked behind a slow request.
type Engine struct {
	store    store.TaskStore
	provider llm.Provider
	language string
	now      func() time.Time

	mu         sync.Mutex
	state      State
	reflection string
	suggestion *types.ReviewSuggestion
	accepted   map[int]bool
	generation int // detects responses from an abandoned analyze
}

// NewEngine creates an idle engine. language is "en" or "zh" and only
// controls the language of the collaborator's summary.
func NewEngine(s store.TaskStore, p llm.Provider, language string) *Engine {
	return &Engine{
		store:    s,
		provider: p,
		language: language,
		now:      time.Now,
		state:    StateIdle,
	}
}

// SetClock overrides the engine's clock. Tests use it for deterministic
// dates and timestamps.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// State returns the current flow state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Suggestion returns the held suggestion, or nil outside StateSuggested.
func (e *Engine) Suggestion() *types.ReviewSuggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.suggestion
}

// Today returns the engine's current calendar day.
func (e *Engine) Today() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.today()
}

// today is Today without the lock; callers hold e.mu.
func (e *Engine) today() string {
	return e.now().Format(models.DateLayout)
}

// CandidateTasks is the scope sent to the collaborator and re-displayed as
// context: every task dated today plus every in_progress task regardless of
// date, so carry-over work is always reconciled.
func (e *Engine) CandidateTasks() []models.Task {
	return e.candidateTasks(e.Today())
}

func (e *Engine) candidateTasks(today string) []models.Task {
	return e.store.ListTasks(func(t models.Task) bool {
		return t.Date == today || t.Status == models.StatusInProgress
	}, nil)
}

// Analyze submits the reflection to the collaborator and transitions
// idle -> analyzing -> suggested. A whitespace-only reflection is a no-op,
// not an error. A second Analyze while one is pending is rejected. On any
// collaborator failure the engine reports types.ErrAnalysisFailed, discards
// partial state and returns to idle; no task is touched.
func (e *Engine) Analyze(ctx context.Context, reflection string) error {
	if strings.TrimSpace(reflection) == "" {
		return nil
	}

	e.mu.Lock()
	if e.state == StateAnalyzing {
		e.mu.Unlock()
		return types.NewAnalysisError("an analysis is already running", nil)
	}
	e.state = StateAnalyzing
	e.generation++
	gen := e.generation
	today := e.today()
	language := e.language
	e.mu.Unlock()

	req := types.ReviewRequest{
		Tasks:      reduceTasks(e.candidateTasks(today)),
		Reflection: reflection,
		Date:       today,
		Language:   language,
	}

	// The collaborator call runs unlocked so Abandon stays responsive.
	suggestion, err := e.provider.AnalyzeReview(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		// The flow was abandoned while the request was in flight; a late
		// response is discarded without touching state.
		return nil
	}

	if err != nil {
		e.state = StateIdle
		e.suggestion = nil
		e.accepted = nil
		if _, ok := err.(*types.AnalysisError); ok {
			return err
		}
		return types.NewAnalysisError("collaborator request failed", err)
	}

	// A structurally valid suggestion with zero actions is still shown.
	e.state = StateSuggested
	e.reflection = reflection
	e.suggestion = suggestion
	e.accepted = make(map[int]bool, len(suggestion.Actions))
	for i := range suggestion.Actions {
		e.accepted[i] = true
	}
	return nil
}

// reduceTasks projects tasks down to the collaborator's wire view.
func reduceTasks(tasks []models.Task) []types.TaskContext {
	out := make([]types.TaskContext, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, types.TaskContext{
			ID:          t.ID,
			Title:       t.Title,
			Status:      t.Status,
			Estimate:    t.EstimateHours,
			ActualSoFar: t.ActualHours,
		})
	}
	return out
}

// ToggleAction flips the acceptance of the action at the given index.
func (e *Engine) ToggleAction(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateSuggested || e.suggestion == nil {
		return
	}
	if index < 0 || index >= len(e.suggestion.Actions) {
		return
	}
	if e.accepted[index] {
		delete(e.accepted, index)
	} else {
		e.accepted[index] = true
	}
}

// Accepted reports whether the action at the given index is selected.
func (e *Engine) Accepted(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accepted[index]
}

// AcceptedCount returns how many actions are currently selected.
func (e *Engine) AcceptedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.accepted)
}

// Apply materializes the accepted subset of the held suggestion into one
// store batch, in the suggestion's original order, then clears the held
// state and returns to idle. The store is notified of the whole batch once;
// the caller decides what to do on completion (navigation, confirmation).
//
// update_existing actions whose taskId does not resolve emit no mutation;
// they are counted in ApplyResult.Skipped rather than failing the apply.
func (e *Engine) Apply() (ApplyResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result ApplyResult
	if e.state != StateSuggested || e.suggestion == nil {
		return result, fmt.Errorf("no suggestion to apply")
	}

	today := e.today()
	now := e.now().UTC()
	entries := make([]store.BatchEntry, 0, len(e.suggestion.Actions))
	// Later actions see the effect of earlier ones, so two deltas against
	// the same task within one suggestion still accumulate.
	pending := make(map[string]models.Task)

	for i, action := range e.suggestion.Actions {
		if !e.accepted[i] {
			continue
		}
		switch action.Type {
		case types.ActionUpdateExisting:
			existing, ok := pending[action.TaskID]
			if !ok {
				existing, ok = e.store.GetTask(action.TaskID)
			}
			if !ok {
				result.Skipped++
				continue
			}
			updated := existing
			if action.StatusChange != nil {
				updated.Status = *action.StatusChange
			}
			if action.AddActualHours != nil {
				updated.ActualHours += *action.AddActualHours
			}
			updated.UpdatedAt = now
			pending[updated.ID] = updated
			entries = append(entries, store.BatchEntry{TaskID: existing.ID, Task: updated})
			result.Updated++

		case types.ActionCreateNew:
			// Review actions describe work already performed, so a new task
			// defaults to done and is always dated today, never the
			// suggestion's own date field.
			task := models.Task{
				ID:            uuid.NewString(),
				Title:         DefaultTitle,
				Date:          today,
				Category:      models.CategoryMisc,
				Status:        models.StatusDone,
				EstimateHours: 1,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if strings.TrimSpace(action.Title) != "" {
				task.Title = action.Title
			}
			if action.Category != nil && action.Category.IsValid() {
				task.Category = *action.Category
			}
			if action.StatusChange != nil && action.StatusChange.IsValid() {
				task.Status = *action.StatusChange
			}
			if action.EstimateHours != nil && *action.EstimateHours > 0 {
				task.EstimateHours = *action.EstimateHours
			}
			if action.InitialActualHours != nil {
				task.ActualHours = *action.InitialActualHours
			}
			entries = append(entries, store.BatchEntry{Task: task})
			result.Created++
		}
	}

	if err := e.store.ApplyBatch(entries); err != nil {
		return result, err
	}

	e.clear()
	return result, nil
}

// Discard drops the held suggestion without emitting any mutation.
func (e *Engine) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clear()
}

// Abandon invalidates any in-flight analyze so a late response is dropped,
// then resets the flow. Callers use it when the user navigates away.
func (e *Engine) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.clear()
}

func (e *Engine) clear() {
	e.state = StateIdle
	e.reflection = ""
	e.suggestion = nil
	e.accepted = nil
}
