package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	LegsProcessed   prometheus.Counter
	LegsSkipped     prometheus.Counter
	RowsLoaded      *prometheus.CounterVec
	PipelineRuns    *prometheus.CounterVec
	PipelineSeconds prometheus.Histogram
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		LegsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_legs_processed_total",
			Help:      "The total number of flight leg records transformed",
		}),
		LegsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_legs_skipped_total",
			Help:      "The total number of flight legs dropped for unresolved aircraft",
		}),
		RowsLoaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "The total number of rows written per warehouse table",
		}, []string{"table"}),
		PipelineRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "The total number of pipeline runs by load type and outcome",
		}, []string{"load_type", "outcome"}),
		PipelineSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Wall-clock time of a full flight schedule load",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
