package store

import "github.com/focusradar/focusradar/models"

// BatchEntry is one step of an ordered mixed mutation batch. When TaskID is
// set the entry replaces the task with that id (a no-op if the id is absent);
// when TaskID is empty the entry appends Task to the collection.
type BatchEntry struct {
	TaskID string
	Task   models.Task
}

// TaskStore defines the contract for the canonical task collection of a
// session: load at startup, synchronous in-memory mutations, best-effort
// persistence on every change, final save on Close.
type TaskStore interface {
	// Initialize configures the store with backend-specific settings such as
	// the data file path and format, and loads any existing collection.
	// It must be called before any other store operation. A missing or
	// malformed data file yields an empty collection, never an error.
	Initialize(config map[string]string) error

	// AddTask appends a task to the collection. It returns a
	// types.ValidationError if a task with the same id already exists.
	AddTask(task models.Task) (models.Task, error)

	// UpdateTask replaces the task with a matching id. It is a no-op when
	// the id is not present; callers that care must check existence first.
	UpdateTask(task models.Task) error

	// DeleteTask removes the task with the given id. Deleting an absent id
	// is a no-op.
	DeleteTask(id string) error

	// GetTask retrieves a task by id. The boolean reports presence.
	GetTask(id string) (models.Task, bool)

	// ListTasks retrieves tasks, optionally filtered and sorted.
	ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task)) []models.Task

	// ApplyBatch applies an ordered sequence of mixed replace/append entries
	// atomically with respect to the in-memory collection: no reader ever
	// observes a partially-applied batch. A replace entry whose id does not
	// resolve is void; all other entries still apply.
	ApplyBatch(entries []BatchEntry) error

	// Save flushes the collection to disk immediately.
	Save() error

	// Close performs a final save and releases any held resources.
	Close() error
}
