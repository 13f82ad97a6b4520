package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/okian/zebu/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithRegistry(reg),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("engine"),
		)

		Convey("Then construction registers the metric families", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given the global helpers", t, func() {
		Convey("Then recording never panics", func() {
			So(func() {
				metrics.RecordPredictionComputed()
				metrics.RecordPredictionRejected()
				metrics.RecordDietAlert("ACIDOSIS", "critical")
				metrics.RecordSynergyDetected()
				metrics.RecordSimulationDuration(3.2)
				metrics.RecordPremiumCarcass()
				metrics.UpdateQueueSize(5)
				metrics.UpdateQueueCapacity(100)
				metrics.UpdateQueueUtilization(0.05)
				metrics.RecordQueueEnqueue()
				metrics.RecordQueueDequeue()
				metrics.RecordQueueRejection()
				metrics.UpdateWorkerCount(4)
				metrics.RecordWorkerLatency(1.5)
				metrics.RecordWorkerError()
				metrics.UpdateResultsStored(12)
				metrics.RecordHTTPRequest("predictions", "POST", "202")
				metrics.RecordHTTPRequestDuration("predictions", "POST", "202", 0.8)
				metrics.RecordErrorByComponent("worker", "resolve")
			}, ShouldNotPanic)
		})

		Convey("And the scrape registry is exposed", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
