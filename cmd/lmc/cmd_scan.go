package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantum-lichen/LMC-Scanner/internal/loader"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
)

var scanFlags struct {
	topic   string
	text    string
	file    string
	example bool
	save    bool
	timeout time.Duration
	output  outputOptions
}

var scanCmd = &cobra.Command{
	Use:   "scan [text...]",
	Short: "Scan a text against a topic and print the per-sentence report",
	Long: `Scan splits the input into sentences and prints coherence, entropy,
LMC score and diagnostic for each.

Input, first match wins:
  lmc scan --example                        # bundled astronomy example
  lmc scan --topic "..." --file notes.pdf   # .txt, .md, .pdf or .docx
  lmc scan --topic "..." --text "..."
  lmc scan --topic "..." some words here    # positional text
  echo "..." | lmc scan --topic "..."       # stdin`,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVarP(&scanFlags.topic, "topic", "t", "", "Reference topic")
	f.StringVar(&scanFlags.text, "text", "", "Text to analyze")
	f.StringVarP(&scanFlags.file, "file", "f", "", "Read text from a .txt, .md, .pdf or .docx file")
	f.BoolVar(&scanFlags.example, "example", false, "Use the bundled example topic and text")
	f.BoolVar(&scanFlags.save, "save", true, "Store the result in the database")
	f.DurationVar(&scanFlags.timeout, "timeout", 3*time.Minute, "Abort the scan after this long")
	f.StringVarP(&scanFlags.output.format, "format", "o", "ascii", "Output format: ascii, markdown or json")
	f.BoolVar(&scanFlags.output.color, "color", false, "Color diagnostics (ascii only)")
	f.IntVar(&scanFlags.output.width, "width", 60, "Truncate sentences to this many characters")
}

func runScan(cmd *cobra.Command, args []string) error {
	topic, text, err := resolveInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	s, err := newSession(app.cfg, app.log, "cli", scanFlags.save)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if scanFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scanFlags.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.scanner.Scan(ctx, topic, text)
	if recErr := s.recorder.Record(context.WithoutCancel(ctx), topic, result, err, time.Since(start)); recErr != nil {
		app.log.Warn("result not saved", zap.Error(recErr))
	}
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), result, scanFlags.output)
}

// resolveInput picks topic and text from the scan flags, positional args or
// stdin.
func resolveInput(stdin io.Reader, args []string) (topic, text string, err error) {
	topic = scanFlags.topic
	switch {
	case scanFlags.example:
		if topic == "" {
			topic = scan.ExampleTopic
		}
		return topic, scan.ExampleText, nil
	case scanFlags.file != "":
		doc, err := loader.Load(scanFlags.file)
		if err != nil {
			return "", "", err
		}
		if topic == "" {
			topic = doc.Title
		}
		return topic, doc.Text, nil
	case scanFlags.text != "":
		return topic, scanFlags.text, nil
	case len(args) > 0:
		return topic, strings.Join(args, " "), nil
	}

	if stdin == nil {
		return "", "", errors.New("no input: use --text, --file, --example or pipe text on stdin")
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return topic, string(raw), nil
}
