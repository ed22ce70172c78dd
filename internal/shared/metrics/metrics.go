package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	missionsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "missions_created_total",
		Help: "Total missions created",
	})
	analysisStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mission_analysis_started_total",
		Help: "Total mission analyses started",
	})
	analysisCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mission_analysis_completed_total",
		Help: "Total mission analyses completed",
	})
	analysisFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mission_analysis_failed_total",
		Help: "Total mission analyses failed",
	})
	providerFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_fallback_total",
		Help: "Provider calls answered with a fallback payload",
	}, []string{"provider"})
	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mission_analysis_duration_ms",
		Help:    "Mission analysis duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
)

func init() {
	Registry.MustRegister(
		missionsCreatedTotal,
		analysisStartedTotal,
		analysisCompletedTotal,
		analysisFailedTotal,
		providerFallbackTotal,
		analysisDuration,
		collectors.NewGoCollector(),
	)
}

func IncMissionCreated() {
	missionsCreatedTotal.Inc()
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStartedTotal.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompletedTotal.Inc()
}

// IncAnalysisFailed increments the failed counter.
func IncAnalysisFailed() {
	analysisFailedTotal.Inc()
}

// IncProviderFallback counts a fallback answer from the named provider ("reference", "llm").
func IncProviderFallback(provider string) {
	providerFallbackTotal.WithLabelValues(provider).Inc()
}

// ObserveAnalysisDuration records an analysis duration.
func ObserveAnalysisDuration(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	analysisDuration.Observe(ms)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
