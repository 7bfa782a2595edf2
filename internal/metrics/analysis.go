package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analysis pipeline Prometheus metrics.
var (
	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arbiter",
			Name:      "analysis_total",
			Help:      "Total number of completed analyses",
		},
		[]string{"depth", "status"},
	)

	AnalysisPhaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arbiter",
			Name:      "analysis_phase_duration_seconds",
			Help:      "Duration of individual analysis phases in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"phase"},
	)

	AnalysisFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arbiter",
			Name:      "analysis_fallbacks_total",
			Help:      "Fallbacks taken because a phase could not use the oracle",
		},
		[]string{"phase"},
	)
)

var analysisMetricsRegistered bool

// RegisterAnalysisMetrics registers Prometheus analysis metrics. Must be called once from main.
func RegisterAnalysisMetrics() {
	if analysisMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(AnalysisPhaseDuration)
	prometheus.MustRegister(AnalysisFallbacksTotal)
	analysisMetricsRegistered = true
}
