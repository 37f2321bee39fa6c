package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
	"github.com/quantum-lichen/LMC-Scanner/internal/entropy"
	"github.com/quantum-lichen/LMC-Scanner/internal/metrics"
	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
	"github.com/quantum-lichen/LMC-Scanner/internal/score"
)

// #region scanner

// Scanner runs the LMC pipeline: provider segmentation, entropy, score,
// diagnostic and averages.
type Scanner struct {
	provider   provider.Provider
	estimator  *entropy.Estimator
	classifier *diagnostic.Classifier
	workers    int
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// NewScanner creates a scanner. p may be nil when only Analyze is used.
// log and m may be nil.
func NewScanner(p provider.Provider, cfg Config, log *zap.Logger, m *metrics.Metrics) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	s := &Scanner{
		provider:   p,
		classifier: diagnostic.NewClassifier(cfg.Thresholds),
		workers:    cfg.Workers,
		log:        log,
		metrics:    m,
	}
	s.estimator = entropy.NewEstimator(cfg.EntropyMethod, cfg.Compressor, s.onDegrade)
	return s
}

// Classifier returns the active classifier.
func (s *Scanner) Classifier() *diagnostic.Classifier {
	return s.classifier
}

func (s *Scanner) onDegrade(err error) {
	s.log.Warn("entropy compression failed, using character diversity", zap.Error(err))
	s.metrics.Degraded()
}

// #endregion scanner

// #region scan

// Scan validates the input, asks the provider for segments and analyzes them.
func (s *Scanner) Scan(ctx context.Context, topic, text string) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(topic) == "" {
		s.metrics.ObserveScan(metrics.StatusInvalid, time.Since(start))
		return nil, ErrEmptyTopic
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.ObserveScan(metrics.StatusInvalid, time.Since(start))
		return nil, ErrEmptyText
	}
	if s.provider == nil {
		return nil, &ProviderError{Cause: errors.New("no provider configured")}
	}

	segments, err := s.provider.Segment(ctx, topic, text)
	if err != nil {
		if ctx.Err() != nil {
			s.metrics.ObserveScan(metrics.StatusCanceled, time.Since(start))
			return nil, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
		s.metrics.ProviderFailed()
		s.metrics.ObserveScan(metrics.StatusProvider, time.Since(start))
		s.log.Error("coherence provider failed", zap.String("topic", topic), zap.Error(err))
		return nil, &ProviderError{Cause: err}
	}

	result, err := s.Analyze(ctx, topic, segments)
	if err != nil {
		s.metrics.ObserveScan(metrics.StatusCanceled, time.Since(start))
		return nil, err
	}
	s.metrics.ObserveScan(metrics.StatusOK, time.Since(start))
	s.log.Info("scan complete",
		zap.String("scan_id", result.ID),
		zap.Int("sentences", len(result.Sentences)),
		zap.Float64("average_lmc", result.AverageLMC),
		zap.Bool("degraded", result.Degraded),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// #endregion scan

// #region analyze

// Analyze builds a Result from provider segments. Coherence is clamped to
// [0, 1]; entropy is estimated concurrently, everything else runs in input
// order so averages do not depend on scheduling.
func (s *Scanner) Analyze(ctx context.Context, topic string, segments []provider.Segment) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	entropies := make([]float64, len(segments))
	degraded := make([]bool, len(segments))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, seg := range segments {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			entropies[i], degraded[i] = s.estimator.Estimate(seg.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	result := &Result{
		ID:        uuid.New().String(),
		Topic:     topic,
		Sentences: make([]SentenceAnalysis, 0, len(segments)),
		Counts:    make(map[diagnostic.Category]int, len(diagnostic.Categories)),
		CreatedAt: time.Now().UTC(),
	}
	for _, c := range diagnostic.Categories {
		result.Counts[c] = 0
	}

	var totalLMC, totalEntropy, totalCoherence float64
	for i, seg := range segments {
		c := score.Clamp01(seg.Coherence)
		h := entropies[i]
		lmc := score.Combine(c, h)
		d := s.classifier.Classify(c, h, lmc)

		result.Sentences = append(result.Sentences, SentenceAnalysis{
			ID:         uuid.New().String(),
			Text:       seg.Text,
			Entropy:    h,
			Coherence:  c,
			LMCScore:   lmc,
			Diagnostic: d,
		})
		result.Counts[d]++
		if degraded[i] {
			result.Degraded = true
		}
		s.metrics.ObserveSentence(string(d))

		totalLMC += lmc
		totalEntropy += h
		totalCoherence += c
	}

	if n := float64(len(segments)); n > 0 {
		result.AverageLMC = totalLMC / n
		result.AverageEntropy = totalEntropy / n
		result.AverageCoherence = totalCoherence / n
	}
	return result, nil
}

// #endregion analyze
