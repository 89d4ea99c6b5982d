package lifecycle

import "github.com/prometheus/client_golang/prometheus"

var (
	initAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sessiond",
			Subsystem: "lifecycle",
			Name:      "init_attempts_total",
			Help:      "Total initialize attempts by outcome",
		},
		[]string{"outcome"},
	)

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sessiond",
			Subsystem: "lifecycle",
			Name:      "generations_total",
			Help:      "Total generation calls by outcome",
		},
		[]string{"outcome"},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sessiond",
			Subsystem: "lifecycle",
			Name:      "generation_duration_seconds",
			Help:      "Duration of engine completions in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(initAttemptsTotal, generationsTotal, generationDuration)
}
