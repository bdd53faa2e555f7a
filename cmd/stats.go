package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/focusradar/focusradar/stats"
	"github.com/spf13/cobra"
)

var (
	statsFactorStyle = lipgloss.NewStyle().Bold(true)
	statsBarEst      = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	statsBarUnder    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statsBarOver     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statsFaint       = lipgloss.NewStyle().Faint(true)
)

// statsCmd shows the last 7 days of estimate-vs-actual effort.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the weekly estimate-vs-actual calibration",
	RunE: func(cmd *cobra.Command, args []string) error {
		taskStore, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = taskStore.Close() }()

		summary := stats.Weekly(taskStore.ListTasks(nil, nil), time.Now())

		fmt.Printf("Error factor: %s  (planned %gh, actual %gh)\n",
			statsFactorStyle.Render(fmt.Sprintf("%.2fx", summary.ErrorFactor)),
			summary.TotalEstimated, summary.TotalActual)
		fmt.Println(statsFaint.Render(calibrationMessage(summary.Calibrate())))
		fmt.Println()

		for _, day := range summary.Days {
			barStyle := statsBarUnder
			if day.Actual > day.Estimated {
				barStyle = statsBarOver
			}
			fmt.Printf("  %s %s\n", day.Weekday.String()[:3],
				statsBarEst.Render(bar(day.Estimated))+statsFaint.Render(" est"))
			fmt.Printf("      %s\n", barStyle.Render(bar(day.Actual))+statsFaint.Render(" act"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// bar renders h hours as half-hour blocks, capped for sane terminals.
func bar(h float64) string {
	blocks := int(h * 2)
	if blocks > 32 {
		blocks = 32
	}
	if blocks <= 0 && h > 0 {
		blocks = 1
	}
	return strings.Repeat("█", blocks) + fmt.Sprintf(" %g", h)
}

func calibrationMessage(c stats.Calibration) string {
	switch c {
	case stats.CalibrationUnderestimating:
		return "You tend to underestimate; plan wider margins."
	case stats.CalibrationCautious:
		return "You finish faster than planned; you can take on more."
	case stats.CalibrationRealistic:
		return "Your estimates track reality well."
	default:
		return ""
	}
}
