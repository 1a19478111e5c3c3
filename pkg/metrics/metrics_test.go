package metrics_test

import (
	"testing"

	"github.com/okian/gaffer/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerOptions(t *testing.T) {
	Convey("Given a manager with a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("engine"),
			metrics.WithPrometheusRegistry(reg),
		)

		Convey("Then the manager registers its metrics without panicking", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("Then recording helpers do not panic", func() {
			So(func() {
				metrics.RecordEvaluationRequest()
				metrics.RecordPlayerEvaluated()
				metrics.RecordPlayerSkipped()
				metrics.RecordRecommendation("buy")
				metrics.RecordStageLatency("feature", 1.5)
				metrics.UpdateWorkerCount(4)
				metrics.RecordHTTPRequest("recommendations", "POST", "200")
				metrics.RecordHTTPRequestDuration("recommendations", "POST", "200", 12)
				metrics.RecordValuationError()
				metrics.RecordFeatureError()
			}, ShouldNotPanic)
		})

		Convey("And the registry exposes the recorded families", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
