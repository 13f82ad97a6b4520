package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/zebu/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When recording a new ID", func() {
			seen := d.SeenAndRecord(ctx, "req-1")

			Convey("Then it is not a duplicate the first time", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And it is a duplicate the second time", func() {
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording after a failed enqueue", func() {
			d.SeenAndRecord(ctx, "req-2")
			d.Unrecord(ctx, "req-2")

			Convey("Then the ID can be retried", func() {
				So(d.SeenAndRecord(ctx, "req-2"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			d.Unrecord(ctx, "ghost")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a bounded deduper at capacity", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 0; i < 3; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i))
		}

		Convey("When a fourth ID arrives", func() {
			So(d.SeenAndRecord(ctx, "req-3"), ShouldBeFalse)

			Convey("Then the size stays bounded", func() {
				So(d.Size(), ShouldEqual, 3)
			})

			Convey("And the oldest IDs stay protected", func() {
				So(d.SeenAndRecord(ctx, "req-0"), ShouldBeTrue)
			})
		})
	})

	Convey("Given concurrent submitters", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var wg sync.WaitGroup
		var dupes int64
		var mu sync.Mutex

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if d.SeenAndRecord(ctx, "same-id") {
					mu.Lock()
					dupes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one submitter wins", func() {
			So(dupes, ShouldEqual, 49)
			So(d.Size(), ShouldEqual, 1)
		})
	})
}
