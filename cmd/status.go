package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/focusradar/focusradar/models"
	"github.com/focusradar/focusradar/store"
	"github.com/spf13/cobra"
)

// statusCmd sets or cycles a task's status.
var statusCmd = &cobra.Command{
	Use:   "status [new-status] [task-id]",
	Short: "Set a task's status, or cycle it when no status is given",
	Long: `Change a task's status. With no arguments an interactive picker
selects today's task and cycles it (todo -> in_progress -> done -> dropped
-> todo). With a status argument the task is set to it directly.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runStatus,
}

// doneCmd is shorthand for "status done".
var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(append([]string{string(models.StatusDone)}, args...))
	},
}

// startCmd is shorthand for "status in_progress".
var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task as in progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(append([]string{string(models.StatusInProgress)}, args...))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(startCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// Cycle mode: pick a task and advance it one step.
		taskStore, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = taskStore.Close() }()

		task, err := pickTask(taskStore, "")
		if err != nil {
			return err
		}
		next := task.Status.Next()
		task.Status = next
		task.Touch()
		if err := taskStore.UpdateTask(task); err != nil {
			return err
		}
		fmt.Printf("%q is now %s\n", task.Title, next)
		return nil
	}
	return setStatus(args)
}

// setStatus applies args = [status, optional id].
func setStatus(args []string) error {
	status := models.TaskStatus(strings.ToLower(args[0]))
	if !status.IsValid() {
		return fmt.Errorf("unknown status %q (valid: todo, in_progress, done, dropped)", args[0])
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	var task models.Task
	if len(args) > 1 {
		t, ok := resolveTask(taskStore, args[1])
		if !ok {
			return fmt.Errorf("no task with id %q", args[1])
		}
		task = t
	} else {
		t, err := pickTask(taskStore, "Set status of")
		if err != nil {
			return err
		}
		task = t
	}

	task.Status = status
	task.Touch()
	if err := taskStore.UpdateTask(task); err != nil {
		return err
	}
	fmt.Printf("%q is now %s\n", task.Title, status)
	return nil
}

// pickTask runs the interactive picker over today's plan plus carry-over
// in_progress work.
func pickTask(taskStore store.TaskStore, label string) (models.Task, error) {
	if label == "" {
		label = "Select task"
	}
	today := time.Now().Format(models.DateLayout)
	return selectTaskInteractive(taskStore, func(t models.Task) bool {
		return t.Date == today || t.Status == models.StatusInProgress
	}, label)
}

// resolveTask finds a task by full or prefix id.
func resolveTask(taskStore store.TaskStore, id string) (models.Task, bool) {
	if task, ok := taskStore.GetTask(id); ok {
		return task, true
	}
	// Prefix match for convenience; only a unique prefix resolves.
	matches := taskStore.ListTasks(func(t models.Task) bool {
		return strings.HasPrefix(t.ID, id)
	}, nil)
	if len(matches) == 1 {
		return matches[0], true
	}
	return models.Task{}, false
}
