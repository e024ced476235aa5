package dedupe_test

import (
	"fmt"
	"strings"
	"testing"

	dedupe "github.com/okian/skillgraph/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	Convey("Given a new Set", t, func() {
		Convey("When creating a set with default options", func() {
			s := dedupe.New()

			Convey("Then it should be empty and unbounded", func() {
				So(s, ShouldNotBeNil)
				So(s.Len(), ShouldEqual, 0)
				So(s.Full(), ShouldBeFalse)
			})
		})

		Convey("When recording keys", func() {
			s := dedupe.New()

			Convey("And the key is new", func() {
				added := s.Add("151-160::map-k2")

				Convey("Then it should be recorded", func() {
					So(added, ShouldBeTrue)
					So(s.Has("151-160::map-k2"), ShouldBeTrue)
					So(s.Len(), ShouldEqual, 1)
				})
			})

			Convey("And the key was already recorded", func() {
				s.Add("a")
				added := s.Add("a")

				Convey("Then it should not be recorded twice", func() {
					So(added, ShouldBeFalse)
					So(s.Len(), ShouldEqual, 1)
				})
			})

			Convey("And keys arrive out of order", func() {
				s.AddAll("c", "", "a", "b", "a")

				Convey("Then Keys keeps first-seen order and Sorted sorts", func() {
					So(s.Keys(), ShouldResemble, []string{"c", "a", "b"})
					So(s.Sorted(), ShouldResemble, []string{"a", "b", "c"})
				})
			})
		})

		Convey("When the set is bounded", func() {
			s := dedupe.New(dedupe.WithCapacity(3))
			for i := 0; i < 5; i++ {
				s.Add(fmt.Sprintf("sample-%d", i))
			}

			Convey("Then the first keys win", func() {
				So(s.Len(), ShouldEqual, 3)
				So(s.Full(), ShouldBeTrue)
				So(s.Keys(), ShouldResemble, []string{"sample-0", "sample-1", "sample-2"})
				So(s.Has("sample-4"), ShouldBeFalse)
			})
		})

		Convey("When capacity is negative", func() {
			s := dedupe.New(dedupe.WithCapacity(-1))
			for i := 0; i < 1000; i++ {
				s.Add(fmt.Sprintf("k-%d", i))
			}

			Convey("Then the set is unbounded", func() {
				So(s.Len(), ShouldEqual, 1000)
				So(s.Full(), ShouldBeFalse)
			})
		})

		Convey("When Keys is mutated by the caller", func() {
			s := dedupe.New()
			s.Add("x")
			keys := s.Keys()
			keys[0] = "y"

			Convey("Then the set is unaffected", func() {
				So(s.Has("x"), ShouldBeTrue)
				So(s.Keys()[0], ShouldEqual, "x")
			})
		})

		Convey("When recording very long keys", func() {
			s := dedupe.New()
			long := strings.Repeat("a", 10000)

			Convey("Then they behave like any other key", func() {
				So(s.Add(long), ShouldBeTrue)
				So(s.Add(long), ShouldBeFalse)
			})
		})
	})
}

func TestIntersects(t *testing.T) {
	Convey("Given two label lists", t, func() {
		So(dedupe.Intersects([]string{"a", "b"}, []string{"c", "b"}), ShouldBeTrue)
		So(dedupe.Intersects([]string{"a"}, []string{"c", "d", "e"}), ShouldBeFalse)
		So(dedupe.Intersects(nil, []string{"a"}), ShouldBeFalse)
	})
}
