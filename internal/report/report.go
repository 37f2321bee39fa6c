package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
	"github.com/quantum-lichen/LMC-Scanner/internal/logging"
	"github.com/quantum-lichen/LMC-Scanner/internal/replay"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
	"github.com/quantum-lichen/LMC-Scanner/internal/store"
)

// #region options
// Options tunes rendering.
type Options struct {
	Mode Mode
	// Color highlights diagnostics with ANSI colors (ASCII mode only).
	Color bool
	// TextWidth truncates sentence text, in runes. 0 means 60.
	TextWidth int
}

// #endregion options

// #region render
// Render writes the summary, sentence table and category counts of r.
func Render(w io.Writer, r *scan.Result, mode Mode) error {
	return RenderWith(w, r, Options{Mode: mode})
}

// RenderWith is Render with explicit options.
func RenderWith(w io.Writer, r *scan.Result, opts Options) error {
	if opts.TextWidth <= 0 {
		opts.TextWidth = 60
	}
	color := opts.Color && opts.Mode == ASCII

	summary := newTable(opts.Mode, "LMC Scan")
	summary.header("Avg. LMC Score", "Avg. Coherence", "Avg. Entropy", "Sentences")
	summary.row(fmt2(r.AverageLMC), fmt2(r.AverageCoherence), fmt2(r.AverageEntropy), len(r.Sentences))
	if _, err := fmt.Fprintln(w, summary.String()); err != nil {
		return err
	}
	if r.Topic != "" {
		fmt.Fprintf(w, "Topic: %s\n", r.Topic)
	}
	if r.Degraded {
		fmt.Fprintln(w, "Warning: entropy fell back to character diversity for some sentences.")
	}
	fmt.Fprintln(w)

	if len(r.Sentences) == 0 {
		_, err := fmt.Fprintln(w, "No data analyzed yet. Initiate scan.")
		return err
	}

	sentences := newTable(opts.Mode, "")
	sentences.header("#", "Sentence Segment", "Coherence", "Entropy", "LMC Score", "Diagnostic")
	sentences.rightAlign(1, 3, 4, 5)
	for i, s := range r.Sentences {
		label := s.Diagnostic.Label()
		if color {
			label = colorFor(s.Diagnostic).Sprint(label)
		}
		sentences.row(i+1, Truncate(s.Text, opts.TextWidth), fmt2(s.Coherence), fmt2(s.Entropy), fmt2(s.LMCScore), label)
	}
	if _, err := fmt.Fprintln(w, sentences.String()); err != nil {
		return err
	}
	fmt.Fprintln(w)

	counts := newTable(opts.Mode, "")
	counts.header("Diagnostic", "Count")
	counts.rightAlign(2)
	for _, c := range diagnostic.Categories {
		counts.row(c.Label(), r.Counts[c])
	}
	counts.footer("Total", len(r.Sentences))
	_, err := fmt.Fprintln(w, counts.String())
	return err
}

// #endregion render

// #region history
// RenderHistory writes a table of stored scan summaries.
func RenderHistory(w io.Writer, scans []store.Summary, mode Mode) error {
	if len(scans) == 0 {
		_, err := fmt.Fprintln(w, "No scans recorded.")
		return err
	}
	tb := newTable(mode, "")
	tb.header("ID", "Created", "Topic", "Sentences", "Avg. LMC", "Avg. C", "Avg. H")
	tb.rightAlign(4, 5, 6, 7)
	for _, s := range scans {
		tb.row(s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), Truncate(s.Topic, 40),
			s.SentenceCount, fmt2(s.AverageLMC), fmt2(s.AverageCoherence), fmt2(s.AverageEntropy))
	}
	_, err := fmt.Fprintln(w, tb.String())
	return err
}

// #endregion history

// #region replay
// RenderReplay writes a comparison of replayed and expected diagnostics,
// followed by a one-line summary.
func RenderReplay(w io.Writer, rows []replay.Row, sum replay.Summary, mode Mode) error {
	tb := newTable(mode, "")
	tb.header("#", "Sentence Segment", "LMC Score", "Expected", "Replayed", "Match")
	tb.rightAlign(1, 3)
	for _, r := range rows {
		expected, match := "-", "-"
		if r.Expected != "" {
			expected = string(r.Expected)
			match = "OK"
			if !r.Match {
				match = "DIFF"
			}
		}
		tb.row(r.Index+1, Truncate(r.Analysis.Text, 50), fmt2(r.Analysis.LMCScore), expected, string(r.Analysis.Diagnostic), match)
	}
	if _, err := fmt.Fprintln(w, tb.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nSummary: %d sentences, %d checked, %d match, %d diverge\n",
		sum.Sentences, sum.Checked, sum.Checked-sum.Mismatches, sum.Mismatches)
	return err
}

// #endregion replay

// #region provenance
// RenderProvenance writes provenance log entries, newest first.
func RenderProvenance(w io.Writer, entries []logging.ScanEntry, mode Mode) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No provenance entries.")
		return err
	}
	tb := newTable(mode, "")
	tb.header("Time", "Source", "Provider", "Outcome", "Scan", "Reason")
	for _, e := range entries {
		scanID := e.ScanID
		if scanID == "" {
			scanID = "-"
		}
		tb.row(e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Source, e.Provider, e.Outcome, scanID, Truncate(e.Reason, 50))
	}
	_, err := fmt.Fprintln(w, tb.String())
	return err
}

// #endregion provenance

// #region json
// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion json

// #region helpers
func fmt2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func colorFor(c diagnostic.Category) text.Colors {
	switch c {
	case diagnostic.Optimal:
		return text.Colors{text.FgGreen, text.Bold}
	case diagnostic.Dropout:
		return text.Colors{text.FgRed, text.Bold}
	case diagnostic.Stereotype:
		return text.Colors{text.FgYellow}
	case diagnostic.Noise:
		return text.Colors{text.FgMagenta}
	default:
		return text.Colors{text.FgHiBlack}
	}
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// #endregion helpers
