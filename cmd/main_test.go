package main

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseContestID(t *testing.T) {
	Convey("Given command line arguments", t, func() {
		Convey("When a single positive id is supplied", func() {
			id, err := parseContestID([]string{"42"})
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 42)
		})

		Convey("When the argument is missing or extra", func() {
			_, err := parseContestID(nil)
			So(err, ShouldWrap, errMissingContest)
			_, err = parseContestID([]string{"1", "2"})
			So(err, ShouldWrap, errMissingContest)
		})

		Convey("When the argument is not a positive integer", func() {
			for _, arg := range []string{"abc", "0", "-7", "1.5"} {
				_, err := parseContestID([]string{arg})
				So(err, ShouldWrap, errInvalidContest)
			}
		})
	})
}
