package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording upstream metrics", func() {
			Convey("Then it should record fetches", func() {
				So(func() {
					RecordUpstreamFetch()
					RecordUpstreamFetch()
				}, ShouldNotPanic)
			})

			Convey("And it should record fetch errors by kind", func() {
				So(func() {
					RecordUpstreamFetchError("rate_limited")
					RecordUpstreamFetchError("unavailable")
					RecordUpstreamFetchError("data_missing")
				}, ShouldNotPanic)
			})

			Convey("And it should record fetch latency", func() {
				So(func() {
					RecordUpstreamFetchLatency(100.0)
					RecordUpstreamFetchLatency(250.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record missing rounds", func() {
				So(func() {
					RecordUpstreamRoundMissing()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording cache metrics", func() {
			Convey("Then it should record hits and misses", func() {
				So(func() {
					RecordCacheHit()
					RecordCacheMiss()
					RecordSingleflightShared()
				}, ShouldNotPanic)
			})

			Convey("And it should update the cached season count", func() {
				So(func() {
					UpdateCachedSeasons(1)
					UpdateCachedSeasons(3)
					UpdateCachedSeasons(0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording aggregation metrics", func() {
			So(func() {
				RecordStandingsComputed()
				RecordProgressionBuilt()
				RecordAggregationLatency(2.0)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("standings", "GET", "200")
					RecordHTTPRequest("progression", "GET", "400")
					RecordHTTPRequest("seasons", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("standings", "GET", "200", 5.0)
					RecordHTTPRequestDuration("progression", "GET", "400", 1.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error and system metrics", func() {
			So(func() {
				RecordErrorByComponent("http", "client_error")
				UpdateSystemMemoryUsage(64 << 20)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should gather without error", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
