package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "solhttp")
				So(manager.enabled.Load(), ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_ns")
				So(manager.subsystem, ShouldEqual, "test_sub")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2, 3})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "solhttp")
				So(manager.subsystem, ShouldEqual, "api")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording domain events", func() {
			manager.RecordKeypairGenerated()
			manager.RecordKeypairGenerated()
			manager.RecordMessageSigned()
			manager.RecordVerification(true)
			manager.RecordVerification(false)
			manager.RecordVerification(false)
			manager.RecordInstructionBuilt("send_sol")
			manager.RecordError("send_sol", "malformed_request")
			manager.RecordHTTPRequest("send_sol", "POST", "400", 1.5)

			Convey("Then the counters should reflect them", func() {
				So(testutil.ToFloat64(manager.keypairsGenerated), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.messagesSigned), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.verifications.WithLabelValues("true")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.verifications.WithLabelValues("false")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.instructionsBuilt.WithLabelValues("send_sol")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.errorsByEndpoint.WithLabelValues("send_sol", "malformed_request")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.httpRequests.WithLabelValues("send_sol", "POST", "400")), ShouldEqual, 1)
			})
		})

		Convey("When collection is disabled", func() {
			disabled := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithMetricsEnabled(false),
			)
			disabled.RecordKeypairGenerated()
			disabled.RecordMessageSigned()

			Convey("Then nothing should be counted", func() {
				So(testutil.ToFloat64(disabled.keypairsGenerated), ShouldEqual, 0)
				So(testutil.ToFloat64(disabled.messagesSigned), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then package helpers should not panic", func() {
			So(func() {
				RecordKeypairGenerated()
				RecordMessageSigned()
				RecordVerification(true)
				RecordInstructionBuilt("create_token")
				RecordError("keypair", "sdk_rejection")
				RecordHTTPRequest("keypair", "POST", "200", 0.2)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(4)
			}, ShouldNotPanic)
		})

		Convey("Then the registry should expose the collectors", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestSetEnabledWhileRecording(t *testing.T) {
	Convey("Given the global manager under concurrent traffic", t, func() {
		defer SetEnabled(true)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					RecordHTTPRequest("health", "GET", "200", 0.1)
					RecordKeypairGenerated()
				}
			}()
		}
		for i := 0; i < 50; i++ {
			SetEnabled(i%2 == 0)
		}
		wg.Wait()

		Convey("When collection is switched off", func() {
			SetEnabled(false)
			before := testutil.ToFloat64(globalManager.keypairsGenerated)
			RecordKeypairGenerated()

			Convey("Then later records are dropped", func() {
				So(globalManager.enabled.Load(), ShouldBeFalse)
				So(testutil.ToFloat64(globalManager.keypairsGenerated), ShouldEqual, before)
			})
		})

		Convey("When collection is switched back on", func() {
			SetEnabled(true)
			before := testutil.ToFloat64(globalManager.keypairsGenerated)
			RecordKeypairGenerated()

			Convey("Then records are counted again", func() {
				So(testutil.ToFloat64(globalManager.keypairsGenerated), ShouldEqual, before+1)
			})
		})
	})
}
