package score_test

import (
	"testing"

	score "github.com/okian/herald/internal/domain/score"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(tasks []string, rows map[string][]float64) *score.Snapshot {
	return &score.Snapshot{
		TaskNames:  tasks,
		Precisions: make([]int, len(tasks)),
		Rows:       rows,
	}
}

func TestChanges(t *testing.T) {
	Convey("Given successive score snapshots", t, func() {
		tasks := []string{"alpha", "beta"}

		Convey("When nothing moved", func() {
			prev := snapshot(tasks, map[string][]float64{"ada": {30, 0, 30}})
			next := snapshot(tasks, map[string][]float64{"ada": {30, 0, 30}})

			Convey("Then no change is reported", func() {
				So(score.Changes(prev, next, false), ShouldBeEmpty)
			})
		})

		Convey("When one user improved one task", func() {
			prev := snapshot(tasks, map[string][]float64{"ada": {30, 0, 30}})
			next := snapshot(tasks, map[string][]float64{"ada": {40, 0, 40}})

			Convey("Then exactly that change is reported", func() {
				changes := score.Changes(prev, next, false)
				So(changes, ShouldHaveLength, 1)
				So(changes[0], ShouldResemble, score.Change{Username: "ada", TaskIndex: 0, Old: 30, New: 40})
			})
		})

		Convey("When a user moved on several tasks in one pass", func() {
			prev := snapshot(tasks, map[string][]float64{"ada": {30, 10, 40}})
			next := snapshot(tasks, map[string][]float64{"ada": {50, 20, 70}})

			Convey("Then only the first differing task is reported", func() {
				changes := score.Changes(prev, next, false)
				So(changes, ShouldHaveLength, 1)
				So(changes[0].TaskIndex, ShouldEqual, 0)
				So(changes[0].New, ShouldEqual, 50)
			})
		})

		Convey("When several users moved", func() {
			prev := snapshot(tasks, map[string][]float64{
				"zoe": {10, 0, 10},
				"ada": {30, 0, 30},
			})
			next := snapshot(tasks, map[string][]float64{
				"zoe": {20, 0, 20},
				"ada": {40, 0, 40},
			})

			Convey("Then changes come out in username order", func() {
				changes := score.Changes(prev, next, false)
				So(changes, ShouldHaveLength, 2)
				So(changes[0].Username, ShouldEqual, "ada")
				So(changes[1].Username, ShouldEqual, "zoe")
			})
		})

		Convey("When there is no baseline yet", func() {
			next := snapshot(tasks, map[string][]float64{"ada": {40, 0, 40}})

			Convey("Then nothing is reported", func() {
				So(score.Changes(nil, next, false), ShouldBeEmpty)
			})

			Convey("But in debug mode every nonzero score surfaces", func() {
				changes := score.Changes(nil, next, true)
				So(changes, ShouldHaveLength, 1)
				So(changes[0], ShouldResemble, score.Change{Username: "ada", TaskIndex: 0, Old: 0, New: 40})
			})
		})

		Convey("When a user appears for the first time", func() {
			prev := snapshot(tasks, map[string][]float64{"ada": {30, 0, 30}})
			next := snapshot(tasks, map[string][]float64{
				"ada": {30, 0, 30},
				"bob": {0, 25, 25},
			})

			Convey("Then their scores diff against a zero row", func() {
				changes := score.Changes(prev, next, false)
				So(changes, ShouldHaveLength, 1)
				So(changes[0], ShouldResemble, score.Change{Username: "bob", TaskIndex: 1, Old: 0, New: 25})
			})
		})

		Convey("When the task set changed between passes", func() {
			prev := snapshot([]string{"alpha"}, map[string][]float64{"ada": {30, 30}})
			next := snapshot(tasks, map[string][]float64{"ada": {30, 50, 80}})

			Convey("Then the pass is suppressed entirely", func() {
				So(score.Changes(prev, next, false), ShouldBeEmpty)
			})
		})

		Convey("When the fresh snapshot is nil", func() {
			prev := snapshot(tasks, map[string][]float64{"ada": {30, 0, 30}})

			Convey("Then nothing is reported", func() {
				So(score.Changes(prev, nil, false), ShouldBeEmpty)
			})
		})
	})
}
