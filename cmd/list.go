package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/focusradar/focusradar/models"
	"github.com/spf13/cobra"
)

var (
	listAll  bool
	listDate string
)

var (
	styleDone    = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	styleDropped = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	styleActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleMeta    = lipgloss.NewStyle().Faint(true)
	styleHeader  = lipgloss.NewStyle().Bold(true)
)

// listCmd shows the plan for a day.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the day's plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = taskStore.Close() }()

		date := listDate
		if date == "" {
			date = time.Now().Format(models.DateLayout)
		}

		var filterFn func(models.Task) bool
		header := "Plan for " + date
		if listAll {
			header = "All tasks"
		} else {
			filterFn = func(t models.Task) bool { return t.Date == date }
		}

		tasks := taskStore.ListTasks(filterFn, nil)
		fmt.Println(styleHeader.Render(header))
		if len(tasks) == 0 {
			fmt.Println(styleMeta.Render("  nothing planned"))
			return nil
		}

		for _, t := range tasks {
			fmt.Println(renderTaskLine(t, listAll))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "show every task, not just one day")
	listCmd.Flags().StringVarP(&listDate, "date", "d", "", "day to show YYYY-MM-DD (default today)")
}

func renderTaskLine(t models.Task, withDate bool) string {
	title := t.Title
	switch t.Status {
	case models.StatusDone:
		title = styleDone.Render(title)
	case models.StatusDropped:
		title = styleDropped.Render(title)
	case models.StatusInProgress:
		title = styleActive.Render(title)
	case models.StatusTodo:
		// plain
	}

	meta := fmt.Sprintf("[%s] %s %gh/%gh", statusGlyph(t.Status), t.Category, t.ActualHours, t.EstimateHours)
	if withDate {
		meta = t.Date + " " + meta
	}
	return fmt.Sprintf("  %s  %s  %s", title, styleMeta.Render(meta), styleMeta.Render(shortID(t.ID)))
}

func statusGlyph(s models.TaskStatus) string {
	switch s {
	case models.StatusTodo:
		return "·"
	case models.StatusInProgress:
		return "▶"
	case models.StatusDone:
		return "✔"
	case models.StatusDropped:
		return "✘"
	default:
		return "?"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
