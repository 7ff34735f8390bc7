package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	ClassificationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdata",
			Name:      "classification_requests_total",
			Help:      "Total number of entity classification requests",
		},
		[]string{"dataset", "status"}, // status: matched / empty / error
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdata",
			Name:      "generation_requests_total",
			Help:      "Total number of generation backend requests",
		},
		[]string{"model", "mode", "status"}, // mode: text / structured / embedding
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askdata",
			Name:      "generation_request_duration_seconds",
			Help:      "Generation backend request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model", "mode"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdata",
			Name:      "generation_tokens_total",
			Help:      "Total generation backend tokens consumed",
		},
		[]string{"model", "type"}, // type: prompt / completion / total
	)

	KeywordCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdata",
			Name:      "keyword_cache_total",
			Help:      "Keyword extraction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	PipelineStageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdata",
			Name:      "pipeline_stage_failures_total",
			Help:      "Pipeline stage failures by dataset and stage",
		},
		[]string{"dataset", "stage"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ClassificationRequestsTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(KeywordCacheTotal)
	prometheus.MustRegister(PipelineStageFailuresTotal)
	pipelineMetricsRegistered = true
}
