package queue_test

import (
	"context"
	"testing"
	"time"

	queue "github.com/okian/zebu/internal/adapters/mq/queue"
	"github.com/okian/zebu/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func job(id string) queue.Job {
	return model.PredictionJob{RequestID: id, Animal: model.AnimalState{ID: "cow-" + id}}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a small queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			So(q.Enqueue(ctx, job("1")), ShouldBeTrue)
			So(q.Enqueue(ctx, job("2")), ShouldBeTrue)

			Convey("Then the queue reports its length", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third job hits backpressure", func() {
				So(q.Enqueue(ctx, job("3")), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			So(q.Enqueue(ctx, job("1")), ShouldBeTrue)

			select {
			case got := <-q.Dequeue(ctx):
				Convey("Then jobs come back in order", func() {
					So(got.RequestID, ShouldEqual, "1")
				})
			case <-time.After(time.Second):
				t.Fatal("dequeue timed out")
			}
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, job("1")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are refused", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, job("2")), ShouldBeFalse)
			})

			Convey("And the channel drains then closes", func() {
				got, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeTrue)
				So(got.RequestID, ShouldEqual, "1")

				_, ok = <-q.Dequeue(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
