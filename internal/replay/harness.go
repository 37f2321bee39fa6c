package replay

import (
	"context"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
)

// #region types

// Row compares one replayed sentence with its expectation.
type Row struct {
	Index    int
	Analysis scan.SentenceAnalysis
	Expected diagnostic.Category // empty when the fixture has no expectation
	Match    bool
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Sentences  int
	Checked    int
	Mismatches int
	Result     *scan.Result
}

// Passed reports whether every checked sentence matched.
func (s Summary) Passed() bool {
	return s.Mismatches == 0
}

// #endregion types

// #region replay

// Replay runs the fixture segments through a scanner built from base plus
// the fixture's overrides. No provider or network is involved.
func Replay(ctx context.Context, f *Fixture, base scan.Config) ([]Row, Summary, error) {
	s := scan.NewScanner(nil, f.ScanConfig(base), nil, nil)
	result, err := s.Analyze(ctx, f.Topic, f.Segments)
	if err != nil {
		return nil, Summary{}, err
	}

	expected := make(map[int]diagnostic.Category, len(f.Expected))
	for _, e := range f.Expected {
		expected[e.Index] = e.Diagnostic
	}

	rows := make([]Row, len(result.Sentences))
	sum := Summary{Sentences: len(result.Sentences), Result: result}
	for i, sa := range result.Sentences {
		row := Row{Index: i, Analysis: sa, Match: true}
		if want, ok := expected[i]; ok {
			row.Expected = want
			row.Match = sa.Diagnostic == want
			sum.Checked++
			if !row.Match {
				sum.Mismatches++
			}
		}
		rows[i] = row
	}
	return rows, sum, nil
}

// #endregion replay
