package scan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
	"github.com/quantum-lichen/LMC-Scanner/internal/entropy"
	"github.com/quantum-lichen/LMC-Scanner/internal/metrics"
	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
)

// #region fakes

type fixedProvider struct {
	segments []provider.Segment
	err      error
	calls    int
}

func (f *fixedProvider) Segment(ctx context.Context, topic, text string) ([]provider.Segment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

type failingCompressor struct{}

func (failingCompressor) CompressedSize([]byte) (int, error) {
	return 0, errors.New("compressor unavailable")
}

func sampleSegments() []provider.Segment {
	return []provider.Segment{
		{Text: "Le système solaire est composé de huit planètes orbitant autour du Soleil.", Coherence: 0.95},
		{Text: "Les pommes de terre cuites chantent du jazz dans la rivière quantique.", Coherence: 0.05},
		{Text: "Le système est le système est le système est le système est le système.", Coherence: 0.6},
		{Text: "Xyz kjhdf kjhsdfkuy sdkjfh skdjfh kjsdfh gfdg.", Coherence: 1.7},
	}
}

// #endregion fakes

// #region analyze-tests

func TestAnalyze_Empty(t *testing.T) {
	s := NewScanner(nil, DefaultConfig(), nil, nil)
	r, err := s.Analyze(context.Background(), "topic", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Sentences) != 0 {
		t.Errorf("expected no sentences, got %d", len(r.Sentences))
	}
	if r.AverageLMC != 0 || r.AverageEntropy != 0 || r.AverageCoherence != 0 {
		t.Errorf("expected zero averages, got %+v", r)
	}
	for _, c := range diagnostic.Categories {
		if n, ok := r.Counts[c]; !ok || n != 0 {
			t.Errorf("count for %s = %d (present=%v), want 0", c, n, ok)
		}
	}
}

func TestAnalyze_PreservesOrderAndText(t *testing.T) {
	segs := sampleSegments()
	r, err := NewScanner(nil, DefaultConfig(), nil, nil).Analyze(context.Background(), "astronomie", segs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Sentences) != len(segs) {
		t.Fatalf("expected %d sentences, got %d", len(segs), len(r.Sentences))
	}
	for i, s := range r.Sentences {
		if s.Text != segs[i].Text {
			t.Errorf("sentence %d text = %q, want %q", i, s.Text, segs[i].Text)
		}
	}
}

func TestAnalyze_RecordInvariants(t *testing.T) {
	segs := sampleSegments()
	s := NewScanner(nil, DefaultConfig(), nil, nil)
	r, err := s.Analyze(context.Background(), "astronomie", segs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	var sumLMC, sumH, sumC float64
	for i, rec := range r.Sentences {
		if _, err := uuid.Parse(rec.ID); err != nil {
			t.Errorf("sentence %d id %q is not a UUID: %v", i, rec.ID, err)
		}
		if seen[rec.ID] {
			t.Errorf("duplicate id %s", rec.ID)
		}
		seen[rec.ID] = true

		if rec.Coherence < 0 || rec.Coherence > 1 {
			t.Errorf("sentence %d coherence %f not clamped", i, rec.Coherence)
		}
		if rec.Entropy <= 0 {
			t.Errorf("sentence %d entropy %f should be positive", i, rec.Entropy)
		}
		if want := rec.Coherence / (rec.Entropy + 0.0001); rec.LMCScore != want {
			t.Errorf("sentence %d lmc %f, want %f", i, rec.LMCScore, want)
		}
		if want := diagnostic.Classify(rec.Coherence, rec.Entropy, rec.LMCScore); rec.Diagnostic != want {
			t.Errorf("sentence %d diagnostic %s, want %s", i, rec.Diagnostic, want)
		}
		sumLMC += rec.LMCScore
		sumH += rec.Entropy
		sumC += rec.Coherence
	}

	n := float64(len(r.Sentences))
	if r.AverageLMC != sumLMC/n || r.AverageEntropy != sumH/n || r.AverageCoherence != sumC/n {
		t.Errorf("averages do not match per-sentence sums: %+v", r)
	}
	if r.Sentences[3].Coherence != 1 {
		t.Errorf("coherence 1.7 should clamp to 1, got %f", r.Sentences[3].Coherence)
	}
	if r.Sentences[1].Diagnostic != diagnostic.Dropout {
		t.Errorf("off-topic sentence should be DROPOUT, got %s", r.Sentences[1].Diagnostic)
	}
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	if total != len(segs) {
		t.Errorf("counts sum to %d, want %d", total, len(segs))
	}
	if r.Degraded {
		t.Error("gzip path should not be degraded")
	}
}

func TestAnalyze_IdempotentApartFromIDs(t *testing.T) {
	segs := sampleSegments()
	cfg := DefaultConfig()
	cfg.Workers = 3
	s := NewScanner(nil, cfg, nil, nil)

	a, err := s.Analyze(context.Background(), "astronomie", segs)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Analyze(context.Background(), "astronomie", segs)
	if err != nil {
		t.Fatal(err)
	}
	ignore := cmp.Options{
		cmpopts.IgnoreFields(Result{}, "ID", "CreatedAt"),
		cmpopts.IgnoreFields(SentenceAnalysis{}, "ID"),
	}
	if diff := cmp.Diff(a, b, ignore); diff != "" {
		t.Errorf("repeated analysis differs (-first +second):\n%s", diff)
	}
	if a.Sentences[0].ID == b.Sentences[0].ID {
		t.Error("each run should mint fresh ids")
	}
}

func TestAnalyze_WorkerCountDoesNotChangeResult(t *testing.T) {
	segs := sampleSegments()
	one := DefaultConfig()
	one.Workers = 1
	many := DefaultConfig()
	many.Workers = 8

	a, _ := NewScanner(nil, one, nil, nil).Analyze(context.Background(), "t", segs)
	b, _ := NewScanner(nil, many, nil, nil).Analyze(context.Background(), "t", segs)
	if a.AverageLMC != b.AverageLMC || a.AverageEntropy != b.AverageEntropy {
		t.Errorf("averages depend on worker count: %v/%v vs %v/%v",
			a.AverageLMC, a.AverageEntropy, b.AverageLMC, b.AverageEntropy)
	}
}

func TestAnalyze_DegradedFallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cfg := DefaultConfig()
	cfg.Compressor = failingCompressor{}

	r, err := NewScanner(nil, cfg, nil, m).Analyze(context.Background(), "t",
		[]provider.Segment{{Text: "aabb aabb aabb", Coherence: 0.5}})
	if err != nil {
		t.Fatalf("degradation must not fail the scan: %v", err)
	}
	if !r.Degraded {
		t.Error("expected Degraded flag")
	}
	if want := entropy.Diversity("aabb aabb aabb"); r.Sentences[0].Entropy != want {
		t.Errorf("entropy = %f, want diversity %f", r.Sentences[0].Entropy, want)
	}
	if got := testutil.ToFloat64(m.EntropyDegraded); got != 1 {
		t.Errorf("degraded counter = %v, want 1", got)
	}
}

func TestAnalyze_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := NewScanner(nil, DefaultConfig(), nil, nil).Analyze(ctx, "t", sampleSegments())
	if !errors.Is(err, ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected ErrCanceled wrapping context.Canceled, got %v", err)
	}
	if r != nil {
		t.Error("no partial result on cancellation")
	}
}

func TestAnalyze_CustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.DropoutCoherence = 0.99
	r, err := NewScanner(nil, cfg, nil, nil).Analyze(context.Background(), "t", sampleSegments()[:1])
	if err != nil {
		t.Fatal(err)
	}
	if r.Sentences[0].Diagnostic != diagnostic.Dropout {
		t.Errorf("expected DROPOUT with raised bound, got %s", r.Sentences[0].Diagnostic)
	}
}

// #endregion analyze-tests

// #region scan-tests

func TestScan_RejectsEmptyInput(t *testing.T) {
	p := &fixedProvider{segments: sampleSegments()}
	s := NewScanner(p, DefaultConfig(), nil, nil)

	if _, err := s.Scan(context.Background(), "   ", "du texte"); !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("expected ErrEmptyTopic, got %v", err)
	}
	if _, err := s.Scan(context.Background(), "topic", "\n\t"); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if p.calls != 0 {
		t.Errorf("provider must not be called on invalid input, got %d calls", p.calls)
	}
}

func TestScan_ProviderFailure(t *testing.T) {
	cause := errors.New("upstream 503")
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s := NewScanner(&fixedProvider{err: cause}, DefaultConfig(), nil, m)

	r, err := s.Scan(context.Background(), "topic", "du texte")
	if r != nil {
		t.Error("no partial result on provider failure")
	}
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ProviderError should unwrap to the cause")
	}
	if err.Error() != "failed to analyze text via coherence provider" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if strings.Contains(err.Error(), "503") {
		t.Error("user-facing message must not leak provider detail")
	}
	if got := testutil.ToFloat64(m.ProviderFailures); got != 1 {
		t.Errorf("provider failure counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Scans.WithLabelValues(metrics.StatusProvider)); got != 1 {
		t.Errorf("provider_error scans = %v, want 1", got)
	}
}

func TestScan_ProviderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewScanner(&fixedProvider{err: context.Canceled}, DefaultConfig(), nil, nil)
	if _, err := s.Scan(ctx, "topic", "du texte"); !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestScan_EndToEndLexical(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s := NewScanner(provider.NewLexical(provider.DefaultLexicalConfig()), DefaultConfig(), nil, m)

	r, err := s.Scan(context.Background(), ExampleTopic, ExampleText)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(r.Sentences) != 7 {
		t.Fatalf("expected 7 sentences, got %d", len(r.Sentences))
	}
	if r.Topic != ExampleTopic {
		t.Errorf("topic not recorded: %q", r.Topic)
	}
	// planets, gravity/celestial bodies, astrophysics
	for _, i := range []int{0, 1, 3} {
		if got := r.Sentences[i].Diagnostic; got == diagnostic.Dropout {
			t.Errorf("sentence %d (%q) is on topic, got %s (C=%.3f)", i, r.Sentences[i].Text, got, r.Sentences[i].Coherence)
		}
	}
	// potatoes singing jazz, random letters
	for _, i := range []int{2, 6} {
		if got := r.Sentences[i].Diagnostic; got != diagnostic.Dropout {
			t.Errorf("sentence %d (%q) is off topic, got %s (C=%.3f)", i, r.Sentences[i].Text, got, r.Sentences[i].Coherence)
		}
	}
	if got := testutil.ToFloat64(m.Scans.WithLabelValues(metrics.StatusOK)); got != 1 {
		t.Errorf("ok scans = %v, want 1", got)
	}
}

func TestScan_NoProvider(t *testing.T) {
	_, err := NewScanner(nil, DefaultConfig(), nil, nil).Scan(context.Background(), "t", "texte")
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Errorf("expected ProviderError, got %v", err)
	}
}

// #endregion scan-tests
