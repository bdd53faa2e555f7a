package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/focusradar/focusradar/models"
	"github.com/focusradar/focusradar/types"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

const (
	// The data file name carries a schema version suffix so a future
	// incompatible layout can use a new file instead of silently migrating.
	defaultDataFile   = "tasks_v0.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
)

// FileTaskStore implements TaskStore with a single local data file.
//
// The in-memory map is authoritative for the running session. Disk writes are
// fire-and-forget: a failed save is reported on stderr and the mutation still
// succeeds, so the worst case is stale local data, never a crash or rollback.
type FileTaskStore struct {
	fs       afero.Fs
	filePath string
	format   string
	flk      *flock.Flock
	tasks    map[string]models.Task
}

// NewFileTaskStore creates a store backed by the operating system filesystem.
// Initialize must be called before use.
func NewFileTaskStore() *FileTaskStore {
	return &FileTaskStore{
		fs:    afero.NewOsFs(),
		tasks: make(map[string]models.Task),
	}
}

// NewFileTaskStoreWithFs creates a store on the given filesystem. File
// locking is skipped for non-OS filesystems; tests use an in-memory Fs.
func NewFileTaskStoreWithFs(fsys afero.Fs) *FileTaskStore {
	return &FileTaskStore{
		fs:    fsys,
		tasks: make(map[string]models.Task),
	}
}

// Initialize configures the FileTaskStore and loads the existing collection.
// It expects 'dataFile' and 'dataFileFormat' keys in the config map; both
// have defaults. Loading never fails the startup: a missing file yields an
// empty collection and a malformed one is treated as no data.
func (s *FileTaskStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	// The default file name carries a .json extension; re-extend it when a
	// non-JSON format is configured, wherever the file lives.
	if filepath.Base(s.filePath) == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// flock works on real paths only; in-memory filesystems go unlocked.
	if _, ok := s.fs.(*afero.OsFs); ok {
		s.flk = flock.New(s.filePath + ".lock")
	}

	s.lock()
	defer s.unlock()

	s.tasks = make(map[string]models.Task)
	s.loadFromFile()
	return nil
}

func (s *FileTaskStore) lock() {
	if s.flk != nil {
		_ = s.flk.Lock()
	}
}

func (s *FileTaskStore) unlock() {
	if s.flk != nil {
		_ = s.flk.Unlock()
	}
}

// loadFromFile reads the collection from disk into the in-memory map.
// Parse failures are absorbed: they are logged and leave the collection
// empty, matching the "no data" treatment of a missing file.
func (s *FileTaskStore) loadFromFile() {
	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if isNotExist(err) {
			return
		}
		s.report(&types.PersistenceError{Op: "load", Path: s.filePath, Err: err})
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}

	tasks, err := unmarshalTasks(data, s.format)
	if err != nil {
		s.report(&types.PersistenceError{Op: "load", Path: s.filePath, Err: err})
		return
	}

	for _, task := range tasks {
		s.tasks[task.ID] = task
	}
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), fs.ErrNotExist.Error())
}

// unmarshalTasks decodes a task collection in the given format. JSON and YAML
// accept either a bare array (the canonical layout) or a wrapped TaskList.
func unmarshalTasks(data []byte, format string) ([]models.Task, error) {
	switch format {
	case formatJSON:
		var tasks []models.Task
		if err := json.Unmarshal(data, &tasks); err == nil {
			return tasks, nil
		}
		var list models.TaskList
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
		return list.Tasks, nil
	case formatYAML:
		var tasks []models.Task
		if err := yaml.Unmarshal(data, &tasks); err == nil {
			return tasks, nil
		}
		var list models.TaskList
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
		return list.Tasks, nil
	case formatTOML:
		var list models.TaskList
		if err := toml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to unmarshal TOML: %w", err)
		}
		return list.Tasks, nil
	default:
		return nil, fmt.Errorf("unsupported data format for loading: %s", format)
	}
}

// MarshalTasks encodes a task collection in the given format. JSON and YAML
// use a bare array; TOML needs the TaskList wrapper because it cannot encode
// a top-level array.
func MarshalTasks(tasks []models.Task, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case formatJSON:
		return json.MarshalIndent(tasks, "", "  ")
	case formatYAML:
		return yaml.Marshal(tasks)
	case formatTOML:
		buf := new(bytes.Buffer)
		list := models.TaskList{Tasks: tasks, TotalCount: len(tasks)}
		if err := toml.NewEncoder(buf).Encode(list); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported data format for saving: %s", format)
	}
}

// saveToFile writes the collection atomically via a temp file rename.
func (s *FileTaskStore) saveToFile() error {
	data, err := MarshalTasks(s.sortedTasks(), s.format)
	if err != nil {
		return &types.PersistenceError{Op: "save", Path: s.filePath, Err: err}
	}

	tempFilePath := s.filePath + ".tmp"
	if err := afero.WriteFile(s.fs, tempFilePath, data, 0o644); err != nil {
		return &types.PersistenceError{Op: "save", Path: tempFilePath, Err: err}
	}
	if err := s.fs.Rename(tempFilePath, s.filePath); err != nil {
		_ = s.fs.Remove(tempFilePath)
		return &types.PersistenceError{Op: "save", Path: s.filePath, Err: err}
	}
	return nil
}

// persist saves best-effort after a mutation. Failures are logged and
// swallowed: the in-memory collection stays authoritative.
func (s *FileTaskStore) persist() {
	if err := s.saveToFile(); err != nil {
		s.report(err)
	}
}

func (s *FileTaskStore) report(err error) {
	fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
}

// sortedTasks returns the collection ordered by creation time, then id, so
// saves and listings are deterministic.
func (s *FileTaskStore) sortedTasks() []models.Task {
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks
}

// AddTask appends a new task to the collection.
func (s *FileTaskStore) AddTask(task models.Task) (models.Task, error) {
	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, types.NewValidationError("task", err.Error())
	}

	s.lock()
	defer s.unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return models.Task{}, types.NewValidationError("id", fmt.Sprintf("task with ID '%s' already exists", task.ID))
	}
	s.tasks[task.ID] = task
	s.persist()

	return task, nil
}

// UpdateTask replaces the stored task with a matching id. Unknown ids are a
// no-op; callers that need to distinguish must call GetTask first.
func (s *FileTaskStore) UpdateTask(task models.Task) error {
	s.lock()
	defer s.unlock()

	if _, exists := s.tasks[task.ID]; !exists {
		return nil
	}
	s.tasks[task.ID] = task
	s.persist()

	return nil
}

// DeleteTask removes the task with the given id, if present.
func (s *FileTaskStore) DeleteTask(id string) error {
	s.lock()
	defer s.unlock()

	if _, exists := s.tasks[id]; !exists {
		return nil
	}
	delete(s.tasks, id)
	s.persist()

	return nil
}

// GetTask retrieves a task by id.
func (s *FileTaskStore) GetTask(id string) (models.Task, bool) {
	task, ok := s.tasks[id]
	return task, ok
}

// ListTasks retrieves tasks ordered by creation time, optionally filtered
// and re-sorted.
func (s *FileTaskStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task)) []models.Task {
	tasks := s.sortedTasks()

	if filterFn != nil {
		filtered := make([]models.Task, 0, len(tasks))
		for _, task := range tasks {
			if filterFn(task) {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}

	if sortFn != nil {
		sortFn(tasks)
	}

	return tasks
}

// ApplyBatch applies an ordered sequence of mixed replace/append entries and
// saves once afterwards. Each replace resolves its id at the time of that
// step; an unresolved replace is void while the rest of the batch still
// applies. All entries land in the in-memory map before any reader can
// observe the collection again, so a batch is never seen half-applied.
func (s *FileTaskStore) ApplyBatch(entries []BatchEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.lock()
	for _, entry := range entries {
		if entry.TaskID != "" {
			if _, exists := s.tasks[entry.TaskID]; !exists {
				continue
			}
			s.tasks[entry.TaskID] = entry.Task
		} else {
			s.tasks[entry.Task.ID] = entry.Task
		}
	}
	s.persist()
	s.unlock()

	return nil
}

// Save flushes the collection to disk immediately, surfacing any failure.
func (s *FileTaskStore) Save() error {
	s.lock()
	defer s.unlock()
	return s.saveToFile()
}

// Close performs a final save and releases the file lock.
func (s *FileTaskStore) Close() error {
	err := s.Save()
	if s.flk != nil {
		_ = s.flk.Unlock()
	}
	return err
}
