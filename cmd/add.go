package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/focusradar/focusradar/models"
	"github.com/spf13/cobra"
)

var (
	addEstimate float64
	addCategory string
	addDate     string
	addDesc     string
)

// addCmd creates a planned task.
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Plan a task for the day",
	Long: `Add a task to the plan. Tasks default to today with a one hour
estimate and the 'project' category.

Examples:
  focusradar add "Write design doc" --estimate 2
  focusradar add "Reply to hiring thread" --category communication
  focusradar add "Read raft paper" --category learning --date 2026-09-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().Float64VarP(&addEstimate, "estimate", "e", 1, "estimated effort in hours")
	addCmd.Flags().StringVarP(&addCategory, "category", "g", string(models.CategoryProject), "category (project, learning, communication, misc)")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "calendar day YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addDesc, "description", "", "optional longer description")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	category := models.TaskCategory(addCategory)
	if !category.IsValid() {
		return fmt.Errorf("unknown category %q (valid: project, learning, communication, misc)", addCategory)
	}
	if addEstimate < 0 {
		return fmt.Errorf("estimate must be non-negative")
	}

	date := addDate
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	task := models.NewTask(title, date, category, addEstimate)
	task.Description = addDesc

	created, err := taskStore.AddTask(task)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("Added %q (%s, %gh) for %s\n", created.Title, created.Category, created.EstimateHours, created.Date)
	return nil
}
