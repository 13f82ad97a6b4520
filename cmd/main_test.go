package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/okian/zebu/internal/adapters/http/api"
	app "github.com/okian/zebu/internal/app"
	"github.com/okian/zebu/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("ZEBU_ADDR", ":8080")
			_ = os.Setenv("ZEBU_QUEUE_SIZE", "1000")
			_ = os.Setenv("ZEBU_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("ZEBU_ADDR")
				_ = os.Unsetenv("ZEBU_QUEUE_SIZE")
				_ = os.Unsetenv("ZEBU_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithDedupeSize(1000),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			mux := http.NewServeMux()
			api.NewServer(svc, svc, 100).Register(context.Background(), mux)

			srv := &http.Server{
				Addr:              ":0",
				Handler:           mux,
				ReadHeaderTimeout: time.Second,
			}

			convey.Convey("Then the server should carry the route table", func() {
				convey.So(srv.Handler, convey.ShouldEqual, mux)
			})
		})
	})
}
