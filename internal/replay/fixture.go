package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
	"github.com/quantum-lichen/LMC-Scanner/internal/entropy"
	"github.com/quantum-lichen/LMC-Scanner/internal/logging"
	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
)

// #region fixture-types

// Fixture is a recorded provider response with the diagnostics it should
// produce.
type Fixture struct {
	Description   string                 `json:"description"`
	Topic         string                 `json:"topic"`
	EntropyMethod string                 `json:"entropy_method,omitempty"`
	Thresholds    *diagnostic.Thresholds `json:"thresholds,omitempty"`
	Segments      []provider.Segment     `json:"segments"`
	Expected      []FixtureExpected      `json:"expected"`
}

// FixtureExpected is the expected diagnostic for one segment.
type FixtureExpected struct {
	Index      int                 `json:"index"`
	Diagnostic diagnostic.Category `json:"diagnostic"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks that expectations reference existing segments.
func (f *Fixture) Validate() error {
	if _, ok := entropy.ParseMethod(f.EntropyMethod); !ok {
		return fmt.Errorf("unknown entropy method %q", f.EntropyMethod)
	}
	for _, e := range f.Expected {
		if e.Index < 0 || e.Index >= len(f.Segments) {
			return fmt.Errorf("expected index %d out of range [0, %d)", e.Index, len(f.Segments))
		}
		if !e.Diagnostic.Valid() {
			return fmt.Errorf("expected index %d: unknown diagnostic %q", e.Index, e.Diagnostic)
		}
	}
	return nil
}

// ScanConfig overlays the fixture's method and thresholds on base.
func (f *Fixture) ScanConfig(base scan.Config) scan.Config {
	if m, ok := entropy.ParseMethod(f.EntropyMethod); ok && f.EntropyMethod != "" {
		base.EntropyMethod = m
	}
	if f.Thresholds != nil {
		base.Thresholds = *f.Thresholds
	}
	return base
}

// FromResult records a finished scan as a fixture: each sentence becomes a
// segment with its coherence, and its diagnostic becomes the expectation.
func FromResult(r *scan.Result, method entropy.Method, thresholds diagnostic.Thresholds, description string) *Fixture {
	t := thresholds
	f := &Fixture{
		Description:   description,
		Topic:         r.Topic,
		EntropyMethod: string(method),
		Thresholds:    &t,
		Segments:      make([]provider.Segment, len(r.Sentences)),
		Expected:      make([]FixtureExpected, len(r.Sentences)),
	}
	for i, sa := range r.Sentences {
		f.Segments[i] = provider.Segment{Text: sa.Text, Coherence: sa.Coherence}
		f.Expected[i] = FixtureExpected{Index: i, Diagnostic: sa.Diagnostic}
	}
	return f
}

// FromStored records a stored scan with the entropy method and thresholds it
// ran with, taken from rec. fallback supplies whatever rec lacks. A degraded
// scan is recorded with the diversity method its entropies came from.
func FromStored(r *scan.Result, rec *logging.ScanRecord, fallback scan.Config, description string) *Fixture {
	method, thresholds := fallback.EntropyMethod, fallback.Thresholds
	if rec != nil {
		if m, ok := entropy.ParseMethod(rec.EntropyMethod); ok && rec.EntropyMethod != "" {
			method = m
		}
		if !rec.Thresholds.IsZero() {
			thresholds = rec.Thresholds
		}
	}
	if r.Degraded {
		method = entropy.MethodDiversity
	}
	return FromResult(r, method, thresholds, description)
}

// Write encodes f as indented JSON at path.
func (f *Fixture) Write(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-loader
