package rank_test

import (
	"strings"
	"testing"

	rank "github.com/okian/herald/internal/domain/rank"
	"github.com/okian/herald/internal/domain/score"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Given a snapshot with tied totals", t, func() {
		snap := &score.Snapshot{
			TaskNames:  []string{"alpha", "beta"},
			Precisions: []int{0, 0},
			Rows: map[string][]float64{
				"ada":  {100, 50, 150},
				"bob":  {100, 50, 150},
				"carl": {30, 20, 50},
			},
		}

		Convey("When everyone fits under the row limit", func() {
			table := rank.Render(snap, "ada", 10)
			lines := strings.Split(table, "\n")

			Convey("Then tied users share a rank and the next rank skips", func() {
				So(lines, ShouldHaveLength, 5) // header, separator, three rows
				So(lines[2], ShouldEqual, "+ 1 | ada  |   100 |   50 |   150")
				So(lines[3], ShouldEqual, "  1 | bob  |   100 |   50 |   150")
				So(lines[4], ShouldEqual, "  3 | carl |    30 |   20 |    50")
			})

			Convey("Then the header and separator span every column", func() {
				So(lines[0], ShouldEqual, "  # | User | alpha | beta | Total")
				So(lines[1], ShouldStartWith, "  -")
				So(strings.Count(lines[1], "+"), ShouldEqual, 4)
			})

			Convey("Then only the highlighted row carries the diff marker", func() {
				So(strings.Count(table, "\n+ "), ShouldEqual, 1)
				So(lines[2], ShouldStartWith, "+ ")
				for _, line := range lines[3:] {
					So(line, ShouldStartWith, "  ")
				}
			})
		})

		Convey("When the highlighted user falls below the cut", func() {
			table := rank.Render(snap, "carl", 2)
			lines := strings.Split(table, "\n")

			Convey("Then their row is appended past the limit with an ellipsis", func() {
				So(lines, ShouldHaveLength, 6)
				So(lines[4], ShouldEqual, "+ 3 | carl |    30 |   20 |    50")
				So(lines[5], ShouldEqual, "  ...")
			})
		})

		Convey("When a user below the cut is not highlighted", func() {
			table := rank.Render(snap, "ada", 2)

			Convey("Then their row is simply omitted", func() {
				So(table, ShouldNotContainSubstring, "carl")
				So(table, ShouldNotContainSubstring, "...")
			})
		})
	})

	Convey("Given tasks with fractional precision", t, func() {
		snap := &score.Snapshot{
			TaskNames:  []string{"gamma"},
			Precisions: []int{2},
			Rows: map[string][]float64{
				"ada": {33.5, 33.5},
			},
		}

		Convey("Then scores and totals carry the decimal places", func() {
			table := rank.Render(snap, "", 10)
			So(table, ShouldContainSubstring, "33.50 | 33.50")
		})
	})

	Convey("Given no snapshot or a non-positive limit", t, func() {
		So(rank.Render(nil, "ada", 5), ShouldBeEmpty)
		snap := &score.Snapshot{TaskNames: []string{"alpha"}, Precisions: []int{0}}
		So(rank.Render(snap, "ada", 0), ShouldBeEmpty)
	})
}
