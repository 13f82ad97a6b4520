package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	repository "github.com/okian/zebu/internal/adapters/repository"
	"github.com/okian/zebu/internal/domain/carcass"
	. "github.com/smartystreets/goconvey/convey"
)

func prediction(animalID string, score float64) repository.Prediction {
	return repository.Prediction{
		AnimalID: animalID,
		Quality:  carcass.QualityResult{Score: score},
	}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemStore()

		Convey("When storing and reading back a prediction", func() {
			So(store.Put(ctx, prediction("cow-1", 75)), ShouldBeNil)
			got, err := store.Get(ctx, "cow-1")

			Convey("Then the stored value round-trips", func() {
				So(err, ShouldBeNil)
				So(got.AnimalID, ShouldEqual, "cow-1")
				So(got.Quality.Score, ShouldEqual, 75)
			})
		})

		Convey("When reading an unknown animal", func() {
			_, err := store.Get(ctx, "ghost")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When storing with an empty ID", func() {
			err := store.Put(ctx, prediction("", 50))

			Convey("Then the write is rejected", func() {
				So(errors.Is(err, repository.ErrEmptyID), ShouldBeTrue)
			})
		})

		Convey("When replacing an animal's prediction", func() {
			So(store.Put(ctx, prediction("cow-1", 60)), ShouldBeNil)
			So(store.Put(ctx, prediction("cow-1", 80)), ShouldBeNil)

			Convey("Then only the latest survives", func() {
				got, err := store.Get(ctx, "cow-1")
				So(err, ShouldBeNil)
				So(got.Quality.Score, ShouldEqual, 80)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a populated store", t, func() {
		store := repository.NewMemStore(repository.WithShardCount(4))
		scores := map[string]float64{
			"cow-a": 91.5, "cow-b": 55.2, "cow-c": 78.0, "cow-d": 78.0, "cow-e": 12.3,
		}
		for id, sc := range scores {
			So(store.Put(ctx, prediction(id, sc)), ShouldBeNil)
		}

		Convey("When ranking the top 3", func() {
			top, err := store.TopN(ctx, 3)

			Convey("Then entries come back ordered with ranks assigned", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
				So(top[0].AnimalID, ShouldEqual, "cow-a")
				So(top[0].Rank, ShouldEqual, 1)
				// Ties break on animal ID for a stable ranking.
				So(top[1].AnimalID, ShouldEqual, "cow-c")
				So(top[2].AnimalID, ShouldEqual, "cow-d")
			})
		})

		Convey("When asking for more than stored", func() {
			top, err := store.TopN(ctx, 50)

			Convey("Then all entries are returned", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 5)
			})
		})

		Convey("When asking for a non-positive limit", func() {
			_, err := store.TopN(ctx, 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})
	})

	Convey("Given concurrent writers and readers", t, func() {
		store := repository.NewMemStore()
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("cow-%d", i)
				_ = store.Put(ctx, prediction(id, float64(i)))
				_, _ = store.Get(ctx, id)
				_, _ = store.TopN(ctx, 10)
			}(i)
		}
		wg.Wait()

		Convey("Then every write landed", func() {
			So(store.Count(ctx), ShouldEqual, 32)
		})
	})
}
