package review

import (
	"context"
	"testing"
	"time"

	"github.com/focusradar/focusradar/models"
	"github.com/focusradar/focusradar/store"
	"github.com/focusradar/focusradar/types"
	"github.com/spf13/afero"
	"pgregory.net/rapid"
)

// Applied hour deltas must accumulate over any number of review cycles: the
// final actual total is exactly the initial value plus the sum of every
// accepted delta, regardless of how the deltas are batched.
func TestApplyAccumulatesActualHours(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := store.NewFileTaskStoreWithFs(afero.NewMemMapFs())
		if err := s.Initialize(map[string]string{"dataFile": "tasks.json", "dataFileFormat": "json"}); err != nil {
			rt.Fatalf("store init failed: %v", err)
		}

		task := models.NewTask("Long running", "2026-08-31", models.CategoryProject, 4)
		task.ActualHours = rapid.Float64Range(0, 4).Draw(rt, "initial")
		if _, err := s.AddTask(task); err != nil {
			rt.Fatalf("AddTask failed: %v", err)
		}

		provider := &fakeProvider{}
		engine := NewEngine(s, provider, "en")
		engine.SetClock(func() time.Time { return testNow })

		want := task.ActualHours
		cycles := rapid.IntRange(1, 5).Draw(rt, "cycles")
		for c := 0; c < cycles; c++ {
			perBatch := rapid.IntRange(1, 4).Draw(rt, "perBatch")
			actions := make([]types.ReviewAction, 0, perBatch)
			for a := 0; a < perBatch; a++ {
				delta := rapid.Float64Range(0, 3).Draw(rt, "delta")
				want += delta
				actions = append(actions, types.ReviewAction{
					Type:           types.ActionUpdateExisting,
					TaskID:         task.ID,
					AddActualHours: &delta,
				})
			}
			provider.suggestion = &types.ReviewSuggestion{Date: "2026-08-31", Actions: actions}

			if err := engine.Analyze(context.Background(), "worked more"); err != nil {
				rt.Fatalf("Analyze failed: %v", err)
			}
			if _, err := engine.Apply(); err != nil {
				rt.Fatalf("Apply failed: %v", err)
			}
		}

		got, _ := s.GetTask(task.ID)
		if got.ActualHours != want {
			rt.Fatalf("ActualHours = %v, want accumulated %v", got.ActualHours, want)
		}
	})
}
