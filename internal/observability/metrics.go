// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing, so collaborators can treat it as optional.
type Metrics struct {
	// Pipeline metrics
	ImagesProcessed   *prometheus.CounterVec
	SectionsSegmented prometheus.Counter
	CandidatesParsed  prometheus.Counter
	ParseFailures     prometheus.Counter

	// Ledger metrics
	TransactionsStored  prometheus.Counter
	DuplicateConflicts  prometheus.Counter

	// Latency metrics
	OCRDuration     prometheus.Histogram
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "swap_ledger"
	}

	return &Metrics{
		ImagesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "images_processed_total",
			Help:      "Total number of screenshots processed by outcome",
		}, []string{"status"}),
		SectionsSegmented: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "sections_segmented_total",
			Help:      "Total number of transaction sections found in OCR text",
		}),
		CandidatesParsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "candidates_parsed_total",
			Help:      "Total number of complete swap candidates extracted",
		}),
		ParseFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "parse_failures_total",
			Help:      "Total number of sections that failed field extraction",
		}),
		TransactionsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_stored_total",
			Help:      "Total number of transactions written to the ledger",
		}),
		DuplicateConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "duplicate_conflicts_total",
			Help:      "Total number of swaps rejected as duplicates",
		}),
		OCRDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ocr",
			Name:      "recognize_duration_seconds",
			Help:      "OCR recognition latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordImage increments the processed images counter for a batch outcome.
func (m *Metrics) RecordImage(status string) {
	if m == nil {
		return
	}
	m.ImagesProcessed.WithLabelValues(status).Inc()
}

// RecordSections adds the number of sections found in one image.
func (m *Metrics) RecordSections(n int) {
	if m == nil {
		return
	}
	m.SectionsSegmented.Add(float64(n))
}

// RecordCandidate increments the parsed candidates counter.
func (m *Metrics) RecordCandidate() {
	if m == nil {
		return
	}
	m.CandidatesParsed.Inc()
}

// RecordParseFailure increments the parse failures counter.
func (m *Metrics) RecordParseFailure() {
	if m == nil {
		return
	}
	m.ParseFailures.Inc()
}

// RecordTransactionStored increments the stored transactions counter.
func (m *Metrics) RecordTransactionStored() {
	if m == nil {
		return
	}
	m.TransactionsStored.Inc()
}

// RecordDuplicateConflict increments the duplicate conflicts counter.
func (m *Metrics) RecordDuplicateConflict() {
	if m == nil {
		return
	}
	m.DuplicateConflicts.Inc()
}

// RecordOCRDuration records OCR recognition latency.
func (m *Metrics) RecordOCRDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.OCRDuration.Observe(d.Seconds())
}

// RecordRequest records HTTP handler latency for a route.
func (m *Metrics) RecordRequest(route, method string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
