package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/quantum-lichen/LMC-Scanner/internal/diagnostic"
	"github.com/quantum-lichen/LMC-Scanner/internal/logging"
	"github.com/quantum-lichen/LMC-Scanner/internal/report"
	"github.com/quantum-lichen/LMC-Scanner/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to lmc.db")
	last := flag.Int("last", 20, "show N most recent provenance entries")
	scanID := flag.String("scan", "", "show one scan with its provenance")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/lmc.db [--last N] [--scan id] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *scanID != "" {
		err = runDetailMode(os.Stdout, st, *scanID, *jsonOut)
	} else {
		err = runListMode(os.Stdout, st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(w io.Writer, st *store.Store, last int, jsonOut bool) error {
	entries, err := logging.Recent(st.DB(), "", last)
	if err != nil {
		return err
	}
	if jsonOut {
		return report.JSON(w, toRows(entries))
	}
	if err := report.RenderProvenance(w, entries, report.ASCII); err != nil {
		return err
	}

	outcomes := map[string]int{}
	for _, e := range entries {
		outcomes[e.Outcome]++
	}
	if len(entries) > 0 {
		fmt.Fprintf(w, "\nOutcomes: ok=%d invalid=%d provider_error=%d canceled=%d\n",
			outcomes["ok"], outcomes["invalid"], outcomes["provider_error"], outcomes["canceled"])
	}
	return nil
}

type provenanceRow struct {
	ScanID    string              `json:"scan_id,omitempty"`
	Source    string              `json:"source"`
	Provider  string              `json:"provider,omitempty"`
	Outcome   string              `json:"outcome"`
	Reason    string              `json:"reason,omitempty"`
	CreatedAt string              `json:"created_at"`
	Details   *logging.ScanRecord `json:"details,omitempty"`
}

func toRows(entries []logging.ScanEntry) []provenanceRow {
	rows := make([]provenanceRow, len(entries))
	for i, e := range entries {
		rows[i] = provenanceRow{
			ScanID:    e.ScanID,
			Source:    e.Source,
			Provider:  e.Provider,
			Outcome:   e.Outcome,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Details:   parseRecord(e.DetailsJSON),
		}
	}
	return rows
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	ID               string                      `json:"id"`
	Topic            string                      `json:"topic"`
	CreatedAt        string                      `json:"created_at"`
	Sentences        int                         `json:"sentences"`
	AverageLMC       float64                     `json:"average_lmc"`
	AverageCoherence float64                     `json:"average_coherence"`
	AverageEntropy   float64                     `json:"average_entropy"`
	Degraded         bool                        `json:"degraded"`
	Counts           map[diagnostic.Category]int `json:"counts"`
	Provenance       []provenanceRow             `json:"provenance"`
}

func runDetailMode(w io.Writer, st *store.Store, scanID string, jsonOut bool) error {
	r, err := st.GetScan(context.Background(), scanID)
	if err != nil {
		return fmt.Errorf("%s: %w", scanID, err)
	}
	entries, err := logging.Recent(st.DB(), scanID, 0)
	if err != nil {
		return err
	}

	out := detailOutput{
		ID:               r.ID,
		Topic:            r.Topic,
		CreatedAt:        r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Sentences:        len(r.Sentences),
		AverageLMC:       r.AverageLMC,
		AverageCoherence: r.AverageCoherence,
		AverageEntropy:   r.AverageEntropy,
		Degraded:         r.Degraded,
		Counts:           r.Counts,
		Provenance:       toRows(entries),
	}
	if jsonOut {
		return report.JSON(w, out)
	}

	fmt.Fprintf(w, "Scan:       %s\n", out.ID)
	fmt.Fprintf(w, "Topic:      %s\n", out.Topic)
	fmt.Fprintf(w, "Created:    %s\n", out.CreatedAt)
	fmt.Fprintf(w, "Sentences:  %d\n", out.Sentences)
	fmt.Fprintf(w, "Avg. LMC:   %.4f\n", out.AverageLMC)
	fmt.Fprintf(w, "Avg. C:     %.4f\n", out.AverageCoherence)
	fmt.Fprintf(w, "Avg. H:     %.4f\n", out.AverageEntropy)
	fmt.Fprintf(w, "Degraded:   %v\n", out.Degraded)

	fmt.Fprintf(w, "\nDiagnostics:\n")
	for _, c := range diagnostic.Categories {
		fmt.Fprintf(w, "  %-12s %d\n", c.Label(), out.Counts[c])
	}

	for _, p := range out.Provenance {
		fmt.Fprintf(w, "\nProvenance (%s, %s via %s):\n", p.CreatedAt, p.Source, p.Provider)
		if p.Details == nil {
			continue
		}
		t := p.Details.Thresholds
		fmt.Fprintf(w, "  Entropy:     %s\n", p.Details.EntropyMethod)
		fmt.Fprintf(w, "  Thresholds:  C<%.2f LMC>%.2f H<%.2f H>%.2f\n",
			t.DropoutCoherence, t.OptimalScore, t.StereotypeEntropy, t.NoiseEntropy)
		fmt.Fprintf(w, "  Elapsed:     %dms\n", p.Details.ElapsedMS)
	}
	return nil
}

// #endregion detail-mode

// #region output

func parseRecord(detailsJSON string) *logging.ScanRecord {
	if detailsJSON == "" {
		return nil
	}
	var rec logging.ScanRecord
	if err := json.Unmarshal([]byte(detailsJSON), &rec); err != nil {
		return nil
	}
	return &rec
}

// #endregion output
