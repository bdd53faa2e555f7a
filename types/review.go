package types

import "github.com/focusradar/focusradar/models"

// ActionType distinguishes the two kinds of review action.
type ActionType string

const (
	ActionUpdateExisting ActionType = "update_existing"
	ActionCreateNew      ActionType = "create_new"
)

// IsValid reports whether the action type is a member of the closed set.
func (a ActionType) IsValid() bool {
	switch a {
	case ActionUpdateExisting, ActionCreateNew:
		return true
	default:
		return false
	}
}

// ReviewAction is one proposed task mutation derived from a reflection.
// Optional fields are pointers so that "absent" is distinguishable from a
// legitimate zero value on the wire.
type ReviewAction struct {
	Type ActionType `json:"type"`

	// update_existing
	TaskID         string             `json:"taskId,omitempty"`
	StatusChange   *models.TaskStatus `json:"statusChange,omitempty"`
	AddActualHours *float64           `json:"addActualHours,omitempty"` // delta to ADD, never an absolute value

	// create_new
	Title              string               `json:"title,omitempty"`
	Category           *models.TaskCategory `json:"category,omitempty"`
	EstimateHours      *float64             `json:"estimateHours,omitempty"`
	InitialActualHours *float64             `json:"initialActualHours,omitempty"`
}

// ReviewSuggestion is the collaborator's full output for one reflection.
// It is ephemeral: held only until the user accepts or rejects it, then
// translated into task mutations and discarded.
type ReviewSuggestion struct {
	Date    string         `json:"date"`
	Summary string         `json:"summary,omitempty"`
	Actions []ReviewAction `json:"actions"`
}

// TaskContext is the reduced task view sent to the collaborator.
type TaskContext struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Status      models.TaskStatus `json:"status"`
	Estimate    float64           `json:"estimate"`
	ActualSoFar float64           `json:"actual_so_far"`
}

// ReviewRequest carries everything the collaborator needs for one analysis.
type ReviewRequest struct {
	Tasks      []TaskContext `json:"tasks"`
	Reflection string        `json:"reflection"`
	Date       string        `json:"date"` // YYYY-MM-DD
	Language   string        `json:"language"`
}
