// Package stats aggregates estimate-vs-actual effort over a rolling window
// and derives the error factor, the calibration metric of the app.
package stats

import (
	"math"
	"time"

	"github.com/focusradar/focusradar/models"
)

// WindowDays is the length of the rolling statistics window.
const WindowDays = 7

// DayStat is one day's summed effort. Dropped tasks are excluded: work the
// user abandoned says nothing about estimation skill.
type DayStat struct {
	Date      string // YYYY-MM-DD
	Weekday   time.Weekday
	Estimated float64
	Actual    float64
}

// Summary is the aggregated view over the window.
type Summary struct {
	Days           []DayStat
	TotalEstimated float64
	TotalActual    float64
	ErrorFactor    float64 // TotalActual / TotalEstimated, 2 decimals, 0.00 on zero estimate
}

// Calibration bands for interpreting the error factor.
type Calibration string

const (
	CalibrationUnderestimating Calibration = "underestimating" // factor > 1.2
	CalibrationCautious        Calibration = "cautious"        // factor < 0.8 with data
	CalibrationRealistic       Calibration = "realistic"
)

// Weekly aggregates the 7 days ending at today (inclusive).
func Weekly(tasks []models.Task, today time.Time) Summary {
	byDate := make(map[string][]models.Task, len(tasks))
	for _, t := range tasks {
		if t.Status == models.StatusDropped {
			continue
		}
		byDate[t.Date] = append(byDate[t.Date], t)
	}

	var summary Summary
	summary.Days = make([]DayStat, 0, WindowDays)

	for i := WindowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		dateStr := day.Format(models.DateLayout)

		stat := DayStat{Date: dateStr, Weekday: day.Weekday()}
		for _, t := range byDate[dateStr] {
			stat.Estimated += t.EstimateHours
			stat.Actual += t.ActualHours
		}

		summary.TotalEstimated += stat.Estimated
		summary.TotalActual += stat.Actual
		summary.Days = append(summary.Days, stat)
	}

	summary.ErrorFactor = errorFactor(summary.TotalActual, summary.TotalEstimated)
	return summary
}

// errorFactor is actual/estimated rounded to 2 decimals, 0.00 when there is
// no estimate to compare against.
func errorFactor(actual, estimated float64) float64 {
	if estimated <= 0 {
		return 0
	}
	return math.Round(actual/estimated*100) / 100
}

// Calibrate interprets the error factor the way the stats view presents it.
func (s Summary) Calibrate() Calibration {
	switch {
	case s.ErrorFactor > 1.2:
		return CalibrationUnderestimating
	case s.ErrorFactor < 0.8 && s.TotalEstimated > 0:
		return CalibrationCautious
	default:
		return CalibrationRealistic
	}
}
