package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantum-lichen/LMC-Scanner/internal/loader"
	"github.com/quantum-lichen/LMC-Scanner/internal/watch"
)

var watchFlags struct {
	dir    string
	topic  string
	output outputOptions
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan files as they appear or change in a directory",
	Long: `Watch monitors a directory for new or modified .txt, .md, .pdf and .docx
files. Each file is scanned against the topic once it has been quiet for the
configured debounce period, stored, and printed.

Without --topic (and without watch.topic in the config) the file name is used
as the topic.`,
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchFlags.dir, "dir", "", "Directory to watch (overrides config)")
	f.StringVarP(&watchFlags.topic, "topic", "t", "", "Reference topic (overrides config)")
	f.StringVarP(&watchFlags.output.format, "format", "o", "ascii", "Output format: ascii, markdown or json")
	f.BoolVar(&watchFlags.output.color, "color", false, "Color diagnostics (ascii only)")
	f.IntVar(&watchFlags.output.width, "width", 60, "Truncate sentences to this many characters")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg := app.cfg
	if watchFlags.dir != "" {
		cfg.Watch.Dir = watchFlags.dir
	}
	if watchFlags.topic != "" {
		cfg.Watch.Topic = watchFlags.topic
	}
	if cfg.Watch.Dir == "" {
		return errors.New("no directory: use --dir or watch.dir in the config")
	}

	s, err := newSession(cfg, app.log, "watch", true)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := watch.New(nil, cfg.Watch.Debounce, app.log.Named("watch"))
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	ctx := cmd.Context()
	events, err := w.Watch(ctx, cfg.Watch.Dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Watch.Dir, err)
	}
	app.log.Info("watching", zap.String("dir", cfg.Watch.Dir), zap.String("topic", cfg.Watch.Topic))

	out := cmd.OutOrStdout()
	for ev := range events {
		if err := scanFile(ctx, s, out, ev, cfg.Watch.Topic, cfg.HTTP.ScanTimeout); err != nil {
			// One bad file must not stop the watcher.
			app.log.Warn("scan failed", zap.String("path", ev.Path), zap.Error(err))
		}
	}
	return nil
}

// scanFile loads, scans, stores and prints one file.
func scanFile(ctx context.Context, s *session, out io.Writer, ev watch.Event, topic string, timeout time.Duration) error {
	doc, err := loader.Load(ev.Path)
	if err != nil {
		return err
	}
	if topic == "" {
		topic = doc.Title
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.scanner.Scan(ctx, topic, doc.Text)
	if recErr := s.recorder.Record(context.WithoutCancel(ctx), topic, result, err, time.Since(start)); recErr != nil {
		app.log.Warn("result not saved", zap.String("path", ev.Path), zap.Error(recErr))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "== %s (%s) ==\n", ev.Path, ev.Op)
	return writeResult(out, result, watchFlags.output)
}
