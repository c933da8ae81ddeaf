package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mediscribe"

// Metrics exposes counters/histograms for the store, LLM, search and
// transcription flows. A nil *Metrics is a valid no-op observer.
type Metrics struct {
	storeOps        *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	llmOps          *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec
	llmProviders    *prometheus.CounterVec
	searchTotal     *prometheus.CounterVec
	searchLatency   prometheus.Histogram
	searchCache     *prometheus.CounterVec
	transcriptions  *prometheus.CounterVec
	transcribeSecs  prometheus.Histogram
	transcribeBytes prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Record store operations by collection and outcome",
		}, []string{"op", "collection", "status"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_seconds",
			Help:      "Latency of record store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "collection"}),
		llmOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "LLM operations by outcome",
		}, []string{"operation", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_seconds",
			Help:      "Latency of LLM operations",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"operation"}),
		llmProviders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "provider_calls_total",
			Help:      "Completion attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		searchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Web searches by outcome",
		}, []string{"outcome"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "request_seconds",
			Help:      "Latency of web searches",
			Buckets:   prometheus.DefBuckets,
		}),
		searchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "cache_lookups_total",
			Help:      "Search cache lookups by result",
		}, []string{"hit"}),
		transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcription",
			Name:      "requests_total",
			Help:      "Audio transcriptions by outcome",
		}, []string{"status"}),
		transcribeSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transcription",
			Name:      "request_seconds",
			Help:      "Latency of audio transcriptions",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		transcribeBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transcription",
			Name:      "upload_bytes",
			Help:      "Size of uploaded audio",
			Buckets:   prometheus.ExponentialBuckets(64<<10, 4, 7),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.storeOps, m.storeLatency,
		m.llmOps, m.llmLatency, m.llmProviders,
		m.searchTotal, m.searchLatency, m.searchCache,
		m.transcriptions, m.transcribeSecs, m.transcribeBytes,
	)
	return m
}

func (m *Metrics) ObserveStoreOp(op, collection, status string, seconds float64) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, collection, status).Inc()
	m.storeLatency.WithLabelValues(op, collection).Observe(seconds)
}

func (m *Metrics) ObserveLLMOp(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.llmOps.WithLabelValues(operation, status).Inc()
	m.llmLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) ObserveLLMProvider(provider, outcome string) {
	if m == nil {
		return
	}
	m.llmProviders.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveSearch(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(outcome).Inc()
	m.searchLatency.Observe(seconds)
}

func (m *Metrics) ObserveSearchCache(hit bool) {
	if m == nil {
		return
	}
	m.searchCache.WithLabelValues(strconv.FormatBool(hit)).Inc()
}

func (m *Metrics) ObserveTranscription(status string, seconds float64, bytes int64) {
	if m == nil {
		return
	}
	m.transcriptions.WithLabelValues(status).Inc()
	m.transcribeSecs.Observe(seconds)
	if bytes > 0 {
		m.transcribeBytes.Observe(float64(bytes))
	}
}
