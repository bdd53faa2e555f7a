package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/focusradar/focusradar/review"
	"github.com/focusradar/focusradar/store"
	"github.com/focusradar/focusradar/types"
)

type reviewPhase int

const (
	phaseAnalyzing reviewPhase = iota
	phaseSelecting
	phaseFinished
)

var (
	reviewTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	reviewSummaryStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("6"))
	reviewSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	reviewSkippedStyle  = lipgloss.NewStyle().Faint(true)
	reviewCursorStyle   = lipgloss.NewStyle().Bold(true)
	reviewLabelUpdate   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render("UPDATE")
	reviewLabelNew      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("NEW")
	reviewHelpStyle     = lipgloss.NewStyle().Faint(true)
)

// analyzedMsg reports completion of the collaborator call.
type analyzedMsg struct{ err error }

// reviewModel drives the review flow in the terminal: an analyzing spinner,
// then a checklist of proposed actions with everything pre-selected.
type reviewModel struct {
	engine     *review.Engine
	taskStore  store.TaskStore
	reflection string

	spinner spinner.Model
	phase   reviewPhase
	cursor  int

	analyzeErr error
	applied    bool
	result     review.ApplyResult
}

func newReviewModel(engine *review.Engine, taskStore store.TaskStore, reflection string) reviewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	return reviewModel{
		engine:     engine,
		taskStore:  taskStore,
		reflection: reflection,
		spinner:    sp,
		phase:      phaseAnalyzing,
	}
}

func (m reviewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.analyzeCmd())
}

func (m reviewModel) analyzeCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.engine.Analyze(context.Background(), m.reflection)
		return analyzedMsg{err: err}
	}
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzedMsg:
		if msg.err != nil {
			m.analyzeErr = msg.err
			m.phase = phaseFinished
			return m, tea.Quit
		}
		m.phase = phaseSelecting
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m reviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.phase == phaseAnalyzing {
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			// Abandoning the view while the request is pending: a late
			// response is dropped, nothing is shown, nothing changes.
			m.engine.Abandon()
			m.phase = phaseFinished
			return m, tea.Quit
		}
		return m, nil
	}
	if m.phase != phaseSelecting {
		return m, nil
	}

	suggestion := m.engine.Suggestion()
	count := 0
	if suggestion != nil {
		count = len(suggestion.Actions)
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < count-1 {
			m.cursor++
		}
	case " ", "x":
		m.engine.ToggleAction(m.cursor)
	case "enter", "a":
		result, err := m.engine.Apply()
		if err != nil {
			m.analyzeErr = err
		} else {
			m.applied = true
			m.result = result
		}
		m.phase = phaseFinished
		return m, tea.Quit
	case "d", "q", "esc", "ctrl+c":
		m.engine.Discard()
		m.phase = phaseFinished
		return m, tea.Quit
	}
	return m, nil
}

func (m reviewModel) View() string {
	switch m.phase {
	case phaseAnalyzing:
		return fmt.Sprintf("\n %s Analyzing your day...\n", m.spinner.View())
	case phaseSelecting:
		return m.viewSelection()
	default:
		return ""
	}
}

func (m reviewModel) viewSelection() string {
	suggestion := m.engine.Suggestion()
	if suggestion == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n" + reviewTitleStyle.Render("AI Review Suggestion") + "\n")
	if suggestion.Summary != "" {
		b.WriteString(reviewSummaryStyle.Render("“"+suggestion.Summary+"”") + "\n")
	}
	b.WriteString("\n")

	if len(suggestion.Actions) == 0 {
		b.WriteString(reviewSkippedStyle.Render("  No changes suggested.") + "\n")
	}

	for i, action := range suggestion.Actions {
		cursor := "  "
		if i == m.cursor {
			cursor = reviewCursorStyle.Render("> ")
		}
		check := "[ ]"
		line := m.describeAction(action)
		if m.engine.Accepted(i) {
			check = reviewSelectedStyle.Render("[x]")
		} else {
			line = reviewSkippedStyle.Render(line)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, line))
	}

	b.WriteString("\n" + reviewHelpStyle.Render("space toggle · enter apply · d discard") + "\n")
	return b.String()
}

func (m reviewModel) describeAction(action types.ReviewAction) string {
	switch action.Type {
	case types.ActionUpdateExisting:
		title := "Unknown Task"
		if task, ok := m.taskStore.GetTask(action.TaskID); ok {
			title = task.Title
		}
		var details []string
		if action.AddActualHours != nil {
			details = append(details, fmt.Sprintf("+%gh actual", *action.AddActualHours))
		}
		if action.StatusChange != nil {
			details = append(details, fmt.Sprintf("status: %s", *action.StatusChange))
		}
		suffix := ""
		if len(details) > 0 {
			suffix = " (" + strings.Join(details, ", ") + ")"
		}
		return fmt.Sprintf("%s %s%s", reviewLabelUpdate, title, suffix)

	case types.ActionCreateNew:
		title := action.Title
		if strings.TrimSpace(title) == "" {
			title = review.DefaultTitle
		}
		var details []string
		if action.InitialActualHours != nil {
			details = append(details, fmt.Sprintf("%gh actual", *action.InitialActualHours))
		}
		status := "done"
		if action.StatusChange != nil {
			status = string(*action.StatusChange)
		}
		details = append(details, "status: "+status)
		return fmt.Sprintf("%s %s (%s)", reviewLabelNew, title, strings.Join(details, ", "))

	default:
		return string(action.Type)
	}
}
