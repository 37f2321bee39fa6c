package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
	"github.com/quantum-lichen/LMC-Scanner/internal/recorder"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
	"github.com/quantum-lichen/LMC-Scanner/internal/store"
)

func seed(t *testing.T) (*store.Store, string) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "lmc.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := scan.DefaultConfig()
	r, err := scan.NewScanner(nil, cfg, nil, nil).Analyze(context.Background(), "astronomie", []provider.Segment{
		{Text: "Les étoiles naissent dans les nébuleuses.", Coherence: 0.9},
		{Text: "Mon chat aime dormir au soleil.", Coherence: 0.05},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	rec := recorder.New(st, "cli", "lexical", cfg, nil)
	if err := rec.Record(context.Background(), "astronomie", r, nil, 0); err != nil {
		t.Fatalf("record: %v", err)
	}
	failed := &scan.ProviderError{Cause: errors.New("connection refused")}
	if err := rec.Record(context.Background(), "astronomie", nil, failed, 0); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	return st, r.ID
}

func TestListMode_Table(t *testing.T) {
	st, id := seed(t)
	var buf bytes.Buffer
	if err := runListMode(&buf, st, 10, false); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := buf.String()
	for _, want := range []string{id, "connection refused", "Outcomes: ok=1 invalid=0 provider_error=1 canceled=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestListMode_JSON(t *testing.T) {
	st, id := seed(t)
	var buf bytes.Buffer
	if err := runListMode(&buf, st, 10, true); err != nil {
		t.Fatalf("list: %v", err)
	}
	var rows []provenanceRow
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Outcome != "provider_error" || rows[1].ScanID != id {
		t.Errorf("unexpected order: %+v", rows)
	}
	if rows[1].Details == nil || rows[1].Details.Sentences != 2 {
		t.Errorf("details not decoded: %+v", rows[1].Details)
	}
}

func TestDetailMode(t *testing.T) {
	st, id := seed(t)
	var buf bytes.Buffer
	if err := runDetailMode(&buf, st, id, false); err != nil {
		t.Fatalf("detail: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Scan:       " + id, "DÉCROCHAGE", "Thresholds:  C<0.25 LMC>1.80 H<0.30 H>0.85", "compression"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	if err := runDetailMode(&buf, st, "missing", false); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
