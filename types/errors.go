package types

import (
	"errors"
	"fmt"
)

// ErrAnalysisFailed marks any failure of the review collaborator: transport
// errors, timeouts, and schema-violating payloads all collapse into it. It is
// the only error class that is allowed to reach user-visible state.
var ErrAnalysisFailed = errors.New("analysis failed")

// ValidationError reports a caller bug such as adding a task whose id already
// exists. It is fatal to that single call only.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError reports a failed read or write of the local data file.
// The store absorbs these at its boundary: a failed load yields an empty
// collection and a failed save loses at most the latest mutation. It never
// propagates out of a store mutation.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// AnalysisError wraps the concrete cause of a collaborator failure while
// matching errors.Is(err, ErrAnalysisFailed).
type AnalysisError struct {
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("analysis failed: %s", e.Reason)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is lets errors.Is treat every AnalysisError as ErrAnalysisFailed.
func (e *AnalysisError) Is(target error) bool { return target == ErrAnalysisFailed }

// NewAnalysisError wraps err with a short reason for the user-facing message.
func NewAnalysisError(reason string, err error) *AnalysisError {
	return &AnalysisError{Reason: reason, Err: err}
}
