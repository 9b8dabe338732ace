package watermark_test

import (
	"testing"

	watermark "github.com/okian/herald/internal/domain/watermark"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMark(t *testing.T) {
	Convey("Given a mark seeded from the store maximum", t, func() {
		m := watermark.New(41)
		So(m.Last(), ShouldEqual, 41)

		Convey("When a newer id arrives", func() {
			moved := m.Advance(45)

			Convey("Then the mark advances", func() {
				So(moved, ShouldBeTrue)
				So(m.Last(), ShouldEqual, 45)
			})
		})

		Convey("When an already-seen id arrives", func() {
			Convey("Then the mark stays put", func() {
				So(m.Advance(41), ShouldBeFalse)
				So(m.Advance(12), ShouldBeFalse)
				So(m.Last(), ShouldEqual, 41)
			})
		})
	})
}
