package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd removes a task permanently. Deletion only ever happens by
// explicit user action; the review flow never deletes.
var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = taskStore.Close() }()

		var title, id string
		if len(args) > 0 {
			t, ok := resolveTask(taskStore, args[0])
			if !ok {
				return fmt.Errorf("no task with id %q", args[0])
			}
			title, id = t.Title, t.ID
		} else {
			t, err := selectTaskInteractive(taskStore, nil, "Delete task")
			if err != nil {
				return err
			}
			title, id = t.Title, t.ID
		}

		if !deleteYes {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Delete %q", title),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := taskStore.DeleteTask(id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		fmt.Printf("Deleted %q\n", title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation")
}
