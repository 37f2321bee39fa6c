// lmc scores text sentence by sentence: coherence against a topic divided by
// compression entropy, with a diagnostic per sentence.
//
// Usage:
//
//	lmc scan --topic "..." --file notes.pdf [--format ascii|markdown|json]
//	lmc scan --example
//	lmc serve [--addr :8080]
//	lmc watch --dir ./inbox --topic "..."
//	lmc history [--limit N] | lmc show <id> | lmc delete <id>
//	lmc replay --fixture path.json | lmc replay --scan <id>
//	lmc segmenter [--addr :50061] [--backend lexical|ollama]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantum-lichen/LMC-Scanner/internal/config"
	"github.com/quantum-lichen/LMC-Scanner/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

// app is populated by the root PersistentPreRunE.
var app struct {
	cfg config.Config
	log *zap.Logger
}

var rootCmd = &cobra.Command{
	Use:   "lmc",
	Short: "LMC scanner: coherence over entropy, sentence by sentence",
	Long: `lmc splits a text into sentences, asks a coherence provider how well each
sentence fits the topic, estimates its entropy from gzip compression, and
classifies it as OPTIMAL, DROPOUT, STEREOTYPE, NOISE or NEUTRAL.

Configuration comes from --config (YAML), .env and LMC_* variables.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&rootFlags.dbPath, "db", "", "SQLite database path (overrides config)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(segmenterCmd)
	rootCmd.Version = version
}

func setup(*cobra.Command, []string) error {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	if rootFlags.dbPath != "" {
		cfg.DB = rootFlags.dbPath
	}
	if rootFlags.logLevel != "" {
		cfg.Log.Level = rootFlags.logLevel
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	app.cfg = cfg
	app.log = log
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
