package stats

import (
	"testing"
	"time"

	"github.com/focusradar/focusradar/models"
)

var statsToday = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func mkTask(date string, status models.TaskStatus, estimate, actual float64) models.Task {
	task := models.NewTask("t", date, models.CategoryMisc, estimate)
	task.Status = status
	task.ActualHours = actual
	return task
}

func TestWeeklyErrorFactor(t *testing.T) {
	tasks := []models.Task{
		mkTask("2026-08-31", models.StatusDone, 2, 3),
		mkTask("2026-08-30", models.StatusDone, 2, 3),
	}
	summary := Weekly(tasks, statsToday)

	if summary.TotalEstimated != 4 {
		t.Errorf("TotalEstimated = %v, want 4", summary.TotalEstimated)
	}
	if summary.TotalActual != 6 {
		t.Errorf("TotalActual = %v, want 6", summary.TotalActual)
	}
	if summary.ErrorFactor != 1.5 {
		t.Errorf("ErrorFactor = %v, want 1.5", summary.ErrorFactor)
	}
}

func TestWeeklyErrorFactorRounding(t *testing.T) {
	// 1/3 must come out as 0.33, not a long fraction.
	summary := Weekly([]models.Task{mkTask("2026-08-31", models.StatusDone, 3, 1)}, statsToday)
	if summary.ErrorFactor != 0.33 {
		t.Errorf("ErrorFactor = %v, want 0.33", summary.ErrorFactor)
	}
}

func TestWeeklyZeroEstimateGivesZeroFactor(t *testing.T) {
	summary := Weekly([]models.Task{mkTask("2026-08-31", models.StatusDone, 0, 5)}, statsToday)
	if summary.ErrorFactor != 0 {
		t.Errorf("ErrorFactor = %v, want 0.00 when nothing was estimated", summary.ErrorFactor)
	}

	empty := Weekly(nil, statsToday)
	if empty.ErrorFactor != 0 {
		t.Errorf("ErrorFactor = %v, want 0.00 for an empty collection", empty.ErrorFactor)
	}
}

func TestWeeklyExcludesDroppedTasks(t *testing.T) {
	tasks := []models.Task{
		mkTask("2026-08-31", models.StatusDone, 2, 2),
		mkTask("2026-08-31", models.StatusDropped, 10, 10),
	}
	summary := Weekly(tasks, statsToday)

	if summary.TotalEstimated != 2 || summary.TotalActual != 2 {
		t.Errorf("dropped task leaked into totals: est=%v act=%v", summary.TotalEstimated, summary.TotalActual)
	}
}

func TestWeeklyWindowBounds(t *testing.T) {
	tasks := []models.Task{
		mkTask("2026-08-31", models.StatusDone, 1, 1), // today, in
		mkTask("2026-08-25", models.StatusDone, 1, 1), // 6 days ago, in
		mkTask("2026-08-24", models.StatusDone, 8, 8), // 7 days ago, out
		mkTask("2026-09-01", models.StatusTodo, 8, 0), // tomorrow, out
	}
	summary := Weekly(tasks, statsToday)

	if len(summary.Days) != WindowDays {
		t.Fatalf("got %d days, want %d", len(summary.Days), WindowDays)
	}
	if summary.Days[0].Date != "2026-08-25" {
		t.Errorf("window starts at %q, want 2026-08-25", summary.Days[0].Date)
	}
	if summary.Days[WindowDays-1].Date != "2026-08-31" {
		t.Errorf("window ends at %q, want today", summary.Days[WindowDays-1].Date)
	}
	if summary.TotalEstimated != 2 {
		t.Errorf("TotalEstimated = %v, want 2 (outside-window tasks excluded)", summary.TotalEstimated)
	}
}

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name      string
		factor    float64
		estimated float64
		want      Calibration
	}{
		{"heavy overrun", 1.5, 10, CalibrationUnderestimating},
		{"boundary 1.2 is still realistic", 1.2, 10, CalibrationRealistic},
		{"fast finisher", 0.5, 10, CalibrationCautious},
		{"boundary 0.8 is still realistic", 0.8, 10, CalibrationRealistic},
		{"on target", 1.0, 10, CalibrationRealistic},
		{"no data is realistic, not cautious", 0, 0, CalibrationRealistic},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Summary{ErrorFactor: tc.factor, TotalEstimated: tc.estimated}
			if got := s.Calibrate(); got != tc.want {
				t.Errorf("Calibrate() = %q, want %q", got, tc.want)
			}
		})
	}
}
