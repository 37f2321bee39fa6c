package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quantum-lichen/LMC-Scanner/internal/logging"
	"github.com/quantum-lichen/LMC-Scanner/internal/metrics"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
	"github.com/quantum-lichen/LMC-Scanner/internal/store"
)

// #region recorder

// Recorder persists scan results and writes one provenance entry per scan
// attempt. A Recorder with a nil store only logs.
type Recorder struct {
	store    *store.Store
	source   string
	provider string
	cfg      scan.Config
	log      *zap.Logger
}

// New creates a recorder for scans started from source ("cli", "http",
// "watch").
func New(st *store.Store, source, providerName string, cfg scan.Config, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{store: st, source: source, provider: providerName, cfg: cfg, log: log}
}

// Record saves result when the scan succeeded and appends a provenance row
// for the outcome. Only a failed save is returned; provenance failures are
// logged.
func (r *Recorder) Record(ctx context.Context, topic string, result *scan.Result, scanErr error, elapsed time.Duration) error {
	if r == nil || r.store == nil {
		return nil
	}

	outcome, reason := Outcome(scanErr)
	rec := logging.ScanRecord{
		Topic:         topic,
		EntropyMethod: string(r.cfg.EntropyMethod),
		Thresholds:    r.cfg.Thresholds,
		ElapsedMS:     elapsed.Milliseconds(),
	}
	entry := logging.ScanEntry{
		Source:   r.source,
		Provider: r.provider,
		Outcome:  outcome,
		Reason:   reason,
	}

	if scanErr == nil && result != nil {
		if err := r.store.SaveScan(ctx, result); err != nil {
			return fmt.Errorf("record scan: %w", err)
		}
		entry.ScanID = result.ID
		rec.Sentences = len(result.Sentences)
		rec.Counts = result.Counts
		rec.Degraded = result.Degraded
	}
	entry.DetailsJSON = logging.MarshalRecord(rec)

	if err := logging.LogScan(r.store.DB(), entry); err != nil {
		r.log.Warn("provenance write failed", zap.String("source", r.source), zap.Error(err))
	}
	return nil
}

// #endregion recorder

// #region outcome

// Outcome maps a Scan error to a provenance outcome and reason. The reason
// keeps the provider cause, which the user-facing message hides.
func Outcome(err error) (outcome, reason string) {
	if err == nil {
		return metrics.StatusOK, ""
	}
	var pe *scan.ProviderError
	switch {
	case errors.Is(err, scan.ErrEmptyTopic), errors.Is(err, scan.ErrEmptyText):
		return metrics.StatusInvalid, err.Error()
	case errors.Is(err, scan.ErrCanceled):
		return metrics.StatusCanceled, err.Error()
	case errors.As(err, &pe):
		if pe.Cause != nil {
			return metrics.StatusProvider, pe.Cause.Error()
		}
		return metrics.StatusProvider, pe.Error()
	}
	return "error", err.Error()
}

// #endregion outcome
