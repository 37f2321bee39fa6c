package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// #region metrics

// Metrics holds the scanner's Prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	Scans            *prometheus.CounterVec
	Sentences        *prometheus.CounterVec
	EntropyDegraded  prometheus.Counter
	ProviderFailures prometheus.Counter
	ScanDuration     prometheus.Histogram
}

// New creates the collectors and registers them on reg. reg may be nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Scans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lmc_scans_total",
				Help: "Total number of scans by outcome.",
			},
			[]string{"status"},
		),
		Sentences: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lmc_sentences_total",
				Help: "Total number of analyzed sentences by diagnostic.",
			},
			[]string{"diagnostic"},
		),
		EntropyDegraded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lmc_entropy_degraded_total",
				Help: "Times the entropy estimator fell back to character diversity.",
			},
		),
		ProviderFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lmc_provider_failures_total",
				Help: "Total number of coherence provider failures.",
			},
		),
		ScanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lmc_scan_duration_seconds",
				Help:    "Scan latency including the provider call.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Scans, m.Sentences, m.EntropyDegraded, m.ProviderFailures, m.ScanDuration)
	}
	return m
}

// #endregion metrics

// #region record

const (
	StatusOK       = "ok"
	StatusInvalid  = "invalid"
	StatusProvider = "provider_error"
	StatusCanceled = "canceled"
)

// ObserveScan records one finished scan.
func (m *Metrics) ObserveScan(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Scans.WithLabelValues(status).Inc()
	m.ScanDuration.Observe(d.Seconds())
}

// ObserveSentence counts one classified sentence.
func (m *Metrics) ObserveSentence(diagnostic string) {
	if m == nil {
		return
	}
	m.Sentences.WithLabelValues(diagnostic).Inc()
}

// Degraded counts one entropy fallback.
func (m *Metrics) Degraded() {
	if m == nil {
		return
	}
	m.EntropyDegraded.Inc()
}

// ProviderFailed counts one provider failure.
func (m *Metrics) ProviderFailed() {
	if m == nil {
		return
	}
	m.ProviderFailures.Inc()
}

// #endregion record
