package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AggregateStarted counts aggregate analyses started.
	AggregateStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aggregate_started_total",
		Help: "Total aggregate analyses started",
	})

	// AggregateResumeFailed counts aggregate analyses aborted by resume failure.
	AggregateResumeFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aggregate_resume_failed_total",
		Help: "Total aggregate analyses aborted by resume failure",
	})

	// AggregateSourceFailed counts optional source failures.
	AggregateSourceFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aggregate_source_failed_total",
		Help: "Total optional source failures",
	})

	// PredictionFallback counts role predictions served by the keyword heuristic.
	PredictionFallback = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prediction_fallback_total",
		Help: "Total role predictions served by the keyword heuristic",
	})

	// PredictionRemote counts role predictions served by the remote classifier.
	PredictionRemote = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prediction_remote_total",
		Help: "Total role predictions served by the remote classifier",
	})

	// InferenceAttempts counts remote inference attempts.
	InferenceAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inference_attempt_total",
		Help: "Total remote inference attempts",
	})

	// InferenceAuthDowngrades counts anonymous retries after a
	// permission-denied response.
	InferenceAuthDowngrades = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inference_auth_downgrade_total",
		Help: "Total anonymous retries after a permission-denied response",
	})

	// AggregateDuration tracks aggregate analysis duration in milliseconds.
	AggregateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aggregate_duration_ms",
		Help:    "Aggregate analysis duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
)

// Handler exposes the default Prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
