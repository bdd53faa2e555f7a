package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusDropped    TaskStatus = "dropped"
)

// IsValid reports whether the status is a member of the closed set.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusDropped:
		return true
	default:
		return false
	}
}

// Next returns the status a single tap on a task cycles to.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	case StatusDone:
		return StatusDropped
	case StatusDropped:
		return StatusTodo
	default:
		return StatusTodo
	}
}

// AllStatuses lists every valid status in display order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusTodo, StatusInProgress, StatusDone, StatusDropped}
}

// TaskCategory classifies what kind of work a task is.
type TaskCategory string

const (
	CategoryProject       TaskCategory = "project"
	CategoryLearning      TaskCategory = "learning"
	CategoryCommunication TaskCategory = "communication"
	CategoryMisc          TaskCategory = "misc"
)

// IsValid reports whether the category is a member of the closed set.
func (c TaskCategory) IsValid() bool {
	switch c {
	case CategoryProject, CategoryLearning, CategoryCommunication, CategoryMisc:
		return true
	default:
		return false
	}
}

// AllCategories lists every valid category in display order.
func AllCategories() []TaskCategory {
	return []TaskCategory{CategoryProject, CategoryLearning, CategoryCommunication, CategoryMisc}
}

// DateLayout is the calendar-day format tasks are keyed by.
const DateLayout = "2006-01-02"

// Task is a unit of planned or performed work for one calendar day.
//
// ID and Date are fixed at creation; every other field may change over the
// task's lifetime. ActualHours only ever grows through normal operation:
// review actions add deltas, they never overwrite the total.
type Task struct {
	ID            string       `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Title         string       `json:"title" yaml:"title" toml:"title" validate:"required,min=1,max=255"`
	Description   string       `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Date          string       `json:"date" yaml:"date" toml:"date" validate:"required,datetime=2006-01-02"`
	Category      TaskCategory `json:"category" yaml:"category" toml:"category" validate:"required,oneof=project learning communication misc"`
	Status        TaskStatus   `json:"status" yaml:"status" toml:"status" validate:"required,oneof=todo in_progress done dropped"`
	EstimateHours float64      `json:"estimateHours" yaml:"estimateHours" toml:"estimateHours" validate:"gte=0"`
	ActualHours   float64      `json:"actualHours" yaml:"actualHours" toml:"actualHours" validate:"gte=0"`
	CreatedAt     time.Time    `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt     time.Time    `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// TaskList wraps the persisted collection.
type TaskList struct {
	Tasks      []Task `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive"`
	TotalCount int    `json:"totalCount" yaml:"totalCount" toml:"totalCount"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// NewTask creates a planned task for the given day with sane defaults.
func NewTask(title, date string, category TaskCategory, estimateHours float64) Task {
	now := time.Now().UTC()
	if !category.IsValid() {
		category = CategoryMisc
	}
	return Task{
		ID:            uuid.NewString(),
		Title:         title,
		Date:          date,
		Category:      category,
		Status:        StatusTodo,
		EstimateHours: estimateHours,
		ActualHours:   0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Touch refreshes the modification timestamp.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
