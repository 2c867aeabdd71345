package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
//
// All recording methods are nil-safe so an engine built without metrics pays
// no instrumentation cost. Register the collectors with your registry via
// NewMetrics, then expose them however your host app serves /metrics.
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	metrics := engine.NewMetrics(registry)
//	eng, err := engine.New(&engine.Config{Metrics: metrics, ...})
type Metrics struct {
	documentsIngested prometheus.Counter
	ingestFailures    prometheus.Counter
	chunksIndexed     prometheus.Counter
	queriesServed     prometheus.Counter
	queryDuration     prometheus.Histogram
	channelDepth      *prometheus.GaugeVec
}

// NewMetrics creates the engine's collectors and registers them with reg.
// A nil registerer registers nothing but still returns usable collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documentsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpora_documents_ingested_total",
			Help: "Documents successfully ingested and indexed.",
		}),
		ingestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpora_ingest_failures_total",
			Help: "Ingestions that ended in the failed state.",
		}),
		chunksIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpora_chunks_indexed_total",
			Help: "Chunks inserted into the vector index.",
		}),
		queriesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpora_queries_total",
			Help: "Queries answered, including zero-result queries.",
		}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corpora_query_duration_seconds",
			Help:    "End-to-end query latency including synthesis.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		channelDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "corpora_channel_depth",
			Help: "Undelivered messages per pipeline stage queue.",
		}, []string{"receiver"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.documentsIngested,
			m.ingestFailures,
			m.chunksIndexed,
			m.queriesServed,
			m.queryDuration,
			m.channelDepth,
		)
	}
	return m
}

func (m *Metrics) recordIngest(chunks int) {
	if m == nil {
		return
	}
	m.documentsIngested.Inc()
	m.chunksIndexed.Add(float64(chunks))
}

func (m *Metrics) recordIngestFailure() {
	if m == nil {
		return
	}
	m.ingestFailures.Inc()
}

func (m *Metrics) recordQuery(start time.Time) {
	if m == nil {
		return
	}
	m.queriesServed.Inc()
	m.queryDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) recordChannelDepth(stats map[string]int) {
	if m == nil {
		return
	}
	for receiver, depth := range stats {
		m.channelDepth.WithLabelValues(receiver).Set(float64(depth))
	}
}
