package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantum-lichen/LMC-Scanner/internal/logging"
	"github.com/quantum-lichen/LMC-Scanner/internal/replay"
	"github.com/quantum-lichen/LMC-Scanner/internal/report"
)

var replayFlags struct {
	fixture string
	scanID  string
	current bool
	format  string
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-classify recorded segments and compare with expected diagnostics",
	Long: `Replay runs recorded provider output through the entropy estimator and
classifier without calling any provider, then compares each sentence's
diagnostic with the recorded one.

  lmc replay --fixture testdata/example.json   # JSON fixture
  lmc replay --scan <id>                       # stored scan, recorded settings
  lmc replay --scan <id> --current             # stored scan, current config

Exits non-zero when any sentence diverges.`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayFlags.fixture, "fixture", "", "Path to fixture JSON")
	f.StringVar(&replayFlags.scanID, "scan", "", "Replay a stored scan by id")
	f.BoolVar(&replayFlags.current, "current", false, "With --scan, classify with the current config instead of the recorded settings")
	f.StringVarP(&replayFlags.format, "format", "o", "ascii", "Output format: ascii or markdown")
}

func runReplay(cmd *cobra.Command, _ []string) error {
	if (replayFlags.fixture == "") == (replayFlags.scanID == "") {
		return errors.New("exactly one of --fixture or --scan is required")
	}
	mode, err := parseMode(replayFlags.format)
	if err != nil {
		return err
	}

	var f *replay.Fixture
	if replayFlags.fixture != "" {
		f, err = replay.LoadFixture(replayFlags.fixture)
		if err != nil {
			return err
		}
	} else {
		st, err := openStore(app.cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		result, err := st.GetScan(cmd.Context(), replayFlags.scanID)
		if err != nil {
			return fmt.Errorf("%s: %w", replayFlags.scanID, err)
		}
		if replayFlags.current {
			f = replay.FromResult(result, app.cfg.Scan.EntropyMethod, app.cfg.Scan.Thresholds, "stored scan "+result.ID)
		} else {
			rec, err := logging.RecordFor(st.DB(), result.ID)
			if err != nil {
				return err
			}
			f = replay.FromStored(result, rec, app.cfg.Scan, "stored scan "+result.ID)
		}
	}

	app.log.Debug("replaying", zap.String("fixture", describeFixture(f)), zap.Int("segments", len(f.Segments)))
	rows, sum, err := replay.Replay(cmd.Context(), f, app.cfg.Scan)
	if err != nil {
		return err
	}
	if err := report.RenderReplay(cmd.OutOrStdout(), rows, sum, mode); err != nil {
		return err
	}
	if !sum.Passed() {
		return fmt.Errorf("replay: %d of %d checked sentences diverge", sum.Mismatches, sum.Checked)
	}
	return nil
}

func describeFixture(f *replay.Fixture) string {
	if d := strings.TrimSpace(f.Description); d != "" {
		return d
	}
	return f.Topic
}
