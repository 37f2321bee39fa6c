package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/quantum-lichen/LMC-Scanner/internal/config"
	"github.com/quantum-lichen/LMC-Scanner/internal/logging"
	"github.com/quantum-lichen/LMC-Scanner/internal/replay"
	"github.com/quantum-lichen/LMC-Scanner/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to lmc.db")
	scanID := flag.String("scan", "", "scan id to export (default: most recent)")
	configPath := flag.String("config", "", "YAML config supplying scan settings missing from provenance")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/lmc.db --out path/to/fixture.json [--scan id] [--config lmc.yaml]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := run(os.Stdout, *dbPath, *scanID, *outPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(w io.Writer, dbPath, scanID, outPath string, cfg config.Config) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if scanID == "" {
		latest, err := st.ListScans(ctx, 1)
		if err != nil {
			return err
		}
		if len(latest) == 0 {
			return fmt.Errorf("no scans found in %s", dbPath)
		}
		scanID = latest[0].ID
	}

	r, err := st.GetScan(ctx, scanID)
	if err != nil {
		return fmt.Errorf("%s: %w", scanID, err)
	}
	if len(r.Sentences) == 0 {
		return fmt.Errorf("scan %s has no sentences to export", scanID)
	}

	desc := fmt.Sprintf("Export of scan %s: %d sentences on %q", r.ID, len(r.Sentences), r.Topic)
	rec, err := logging.RecordFor(st.DB(), r.ID)
	if err != nil {
		return err
	}
	f := replay.FromStored(r, rec, cfg.Scan, desc)
	if err := f.Write(outPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote fixture to %s (%d segments)\n", outPath, len(f.Segments))
	return nil
}

// #endregion export
