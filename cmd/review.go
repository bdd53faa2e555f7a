package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/focusradar/focusradar/llm"
	"github.com/focusradar/focusradar/prompts"
	"github.com/focusradar/focusradar/review"
	"github.com/focusradar/focusradar/types"
	"github.com/spf13/cobra"
)

// reviewCmd runs the daily review flow: reflect, analyze, select, apply.
var reviewCmd = &cobra.Command{
	Use:   "review [reflection...]",
	Short: "Reconcile your day against the plan",
	Long: `Describe in plain language what you actually did today. The AI
reviewer compares your reflection with today's plan (plus any carry-over
in-progress work) and proposes updates: add hours to existing tasks, change
statuses, or record work you never planned. Every proposal starts selected;
toggle any off before applying. Nothing is changed until you apply.

The reflection is taken from the arguments, or from stdin when piped:
  focusradar review "finished the design doc in 3h, skipped the gym"
  git log --since=midnight --oneline | focusradar review`,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	reflection := strings.TrimSpace(strings.Join(args, " "))
	if reflection == "" {
		if stat, _ := os.Stdin.Stat(); (stat.Mode() & os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read reflection from stdin: %w", err)
			}
			reflection = strings.TrimSpace(string(data))
		}
	}
	// An empty reflection is a no-op, not an error.
	if reflection == "" {
		fmt.Println("Nothing to review: reflection is empty.")
		return nil
	}

	config := GetConfig()

	systemPrompt, err := prompts.GetPrompt(prompts.KeyDailyReview, config.Project.RootDir)
	if err != nil {
		return fmt.Errorf("failed to load review prompt: %w", err)
	}

	provider, err := llm.NewProvider(&config.Review, systemPrompt)
	if err != nil {
		return err
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	engine := review.NewEngine(taskStore, provider, config.Language)

	model := newReviewModel(engine, taskStore, reflection)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("review UI failed: %w", err)
	}

	m := final.(reviewModel)
	switch {
	case m.analyzeErr != nil:
		if errors.Is(m.analyzeErr, types.ErrAnalysisFailed) {
			return fmt.Errorf("could not analyze your reflection, please try again: %w", m.analyzeErr)
		}
		return m.analyzeErr
	case m.applied:
		fmt.Printf("Day updated: %d task(s) updated, %d created.\n", m.result.Updated, m.result.Created)
		if m.result.Skipped > 0 {
			fmt.Fprintf(os.Stderr, "Note: %d suggestion(s) referenced tasks that no longer exist and were skipped.\n", m.result.Skipped)
		}
	default:
		fmt.Println("Review discarded. No tasks were changed.")
	}
	return nil
}
