package score_test

import (
	"context"
	"testing"

	"github.com/okian/herald/internal/domain/model"
	score "github.com/okian/herald/internal/domain/score"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeSource serves canned contest data to the aggregator.
type fakeSource struct {
	tasks   []model.Task
	users   []model.User
	best    map[int64]map[string]float64
	results map[int64][]model.ScoredResult
}

func (f *fakeSource) Tasks(_ context.Context, _ int64) ([]model.Task, error) {
	return f.tasks, nil
}

func (f *fakeSource) Users(_ context.Context, _ int64) ([]model.User, error) {
	return f.users, nil
}

func (f *fakeSource) BestScores(_ context.Context, taskID int64) (map[string]float64, error) {
	return f.best[taskID], nil
}

func (f *fakeSource) ScoredResults(_ context.Context, taskID int64) ([]model.ScoredResult, error) {
	return f.results[taskID], nil
}

func TestAggregatorSnapshot(t *testing.T) {
	Convey("Given a contest with a best-submission task and a subtask-max task", t, func() {
		src := &fakeSource{
			tasks: []model.Task{
				{ID: 1, Name: "alpha", Position: 0, ScorePrecision: 0, ScoreMode: model.ScoreModeMax},
				{ID: 2, Name: "beta", Position: 1, ScorePrecision: 2, ScoreMode: model.ScoreModeMaxSubtask},
			},
			users: []model.User{
				{Username: "ada"},
				{Username: "bob"},
				{Username: "eve"},
			},
			best: map[int64]map[string]float64{
				1: {"ada": 100, "bob": 40},
			},
			results: map[int64][]model.ScoredResult{
				2: {
					// ada solves subtask 1 fully, half of subtask 2 ...
					{Username: "ada", Score: 70, ScoreDetails: []byte(`[{"idx":1,"max_score":40,"score_fraction":1.0},{"idx":2,"max_score":60,"score_fraction":0.5}]`)},
					// ... then loses subtask 1 but completes subtask 2.
					{Username: "ada", Score: 70, ScoreDetails: []byte(`[{"idx":1,"max_score":40,"score_fraction":0.25},{"idx":2,"max_score":60,"score_fraction":1.0}]`)},
					// bob's result predates breakdown recording.
					{Username: "bob", Score: 55, ScoreDetails: nil},
				},
			},
		}
		agg := score.NewAggregator(src, 1)

		Convey("When a snapshot is built", func() {
			snap, err := agg.Snapshot(context.Background())
			So(err, ShouldBeNil)

			Convey("Then task order and precision follow the task list", func() {
				So(snap.TaskNames, ShouldResemble, []string{"alpha", "beta"})
				So(snap.Precisions, ShouldResemble, []int{0, 2})
				So(snap.Width(), ShouldEqual, 3)
			})

			Convey("Then subtask maxima combine across submissions", func() {
				// best of {40, 10} on subtask 1 plus best of {30, 60} on 2
				So(snap.Rows["ada"], ShouldResemble, []float64{100, 100, 200})
			})

			Convey("Then a missing breakdown falls back to the whole score", func() {
				So(snap.Rows["bob"], ShouldResemble, []float64{40, 55, 95})
			})

			Convey("Then users without submissions get zero rows", func() {
				So(snap.Rows["eve"], ShouldResemble, []float64{0, 0, 0})
				So(snap.Total("eve"), ShouldEqual, 0)
			})

			Convey("Then rebuilding yields an identical snapshot", func() {
				again, err := agg.Snapshot(context.Background())
				So(err, ShouldBeNil)
				So(snap.Equal(again), ShouldBeTrue)
			})
		})

		Convey("When a score belongs to a user outside the visible set", func() {
			src.best[1]["ghost"] = 100
			snap, err := agg.Snapshot(context.Background())
			So(err, ShouldBeNil)

			Convey("Then no row is invented for it", func() {
				_, ok := snap.Rows["ghost"]
				So(ok, ShouldBeFalse)
				So(snap.Rows, ShouldHaveLength, 3)
			})
		})
	})
}

func TestSnapshotMaxPrecision(t *testing.T) {
	Convey("Given tasks with mixed display precisions", t, func() {
		snap := &score.Snapshot{Precisions: []int{0, 2, 1}}

		Convey("Then the total column uses the widest one", func() {
			So(snap.MaxPrecision(), ShouldEqual, 2)
		})
	})
}
