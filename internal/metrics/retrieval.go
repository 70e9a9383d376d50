package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "convsearch",
			Name:      "retrieval_requests_total",
			Help:      "Total number of retrieval requests",
		},
		[]string{"backend", "status"},
	)

	RetrievalRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "convsearch",
			Name:      "retrieval_request_duration_seconds",
			Help:      "Retrieval request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"backend"},
	)

	RetrievalDocumentsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "convsearch",
			Name:      "retrieval_documents_returned",
			Help:      "Number of documents returned per retrieval",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		},
		[]string{"backend"},
	)

	PageFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "convsearch",
			Name:      "page_fetches_total",
			Help:      "Total web page fetches performed by the web back end",
		},
		[]string{"status"},
	)

	QueryGenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "convsearch",
			Name:      "query_generations_total",
			Help:      "Total query generation calls",
		},
		[]string{"mode", "status"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalRequestDuration)
	prometheus.MustRegister(RetrievalDocumentsReturned)
	prometheus.MustRegister(PageFetchesTotal)
	prometheus.MustRegister(QueryGenerationsTotal)
	retrievalMetricsRegistered = true
}
