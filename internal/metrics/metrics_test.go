package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveScan(StatusOK, 20*time.Millisecond)
	m.ObserveScan(StatusProvider, time.Millisecond)
	m.ObserveSentence("OPTIMAL")
	m.ObserveSentence("OPTIMAL")
	m.ObserveSentence("NOISE")
	m.Degraded()
	m.ProviderFailed()

	if got := testutil.ToFloat64(m.Scans.WithLabelValues(StatusOK)); got != 1 {
		t.Errorf("ok scans = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Sentences.WithLabelValues("OPTIMAL")); got != 2 {
		t.Errorf("optimal sentences = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EntropyDegraded); got != 1 {
		t.Errorf("degraded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ProviderFailures); got != 1 {
		t.Errorf("provider failures = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.ScanDuration); n != 1 {
		t.Errorf("expected 1 histogram series, got %d", n)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveScan(StatusOK, time.Second)
	m.ObserveSentence("NEUTRAL")
	m.Degraded()
	m.ProviderFailed()
}

func TestNew_NilRegistry(t *testing.T) {
	if m := New(nil); m.Scans == nil {
		t.Fatal("collectors should exist without a registry")
	}
}
