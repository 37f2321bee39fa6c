package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/quantum-lichen/LMC-Scanner/internal/codec"
	"github.com/quantum-lichen/LMC-Scanner/internal/config"
	"github.com/quantum-lichen/LMC-Scanner/internal/metrics"
	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
	"github.com/quantum-lichen/LMC-Scanner/internal/recorder"
	"github.com/quantum-lichen/LMC-Scanner/internal/report"
	"github.com/quantum-lichen/LMC-Scanner/internal/scan"
	"github.com/quantum-lichen/LMC-Scanner/internal/store"
)

// #region provider

// newProvider builds the configured coherence provider. Remote providers are
// wrapped in Retry when enabled. The close func releases connections.
func newProvider(cfg config.Config, log *zap.Logger) (provider.Provider, func() error, error) {
	noop := func() error { return nil }
	var (
		p      provider.Provider
		closer = noop
	)
	switch cfg.Provider.Kind {
	case config.ProviderLexical:
		return provider.NewLexical(cfg.LexicalConfig()), noop, nil
	case config.ProviderOllama:
		p = provider.NewOllama(cfg.Provider.OllamaURL, cfg.Provider.OllamaModel, cfg.Provider.Timeout)
	case config.ProviderGRPC:
		c, err := codec.NewClient(cfg.Provider.CodecAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect segmenter at %s: %w", cfg.Provider.CodecAddr, err)
		}
		p, closer = c, c.Close
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider.Kind)
	}
	if cfg.Provider.Retry {
		p = provider.NewRetry(p, cfg.Provider.RetryBackoff, log)
	}
	return p, closer, nil
}

// #endregion provider

// #region session

// session bundles what a scanning command needs.
type session struct {
	scanner  *scan.Scanner
	store    *store.Store
	recorder *recorder.Recorder
	registry *prometheus.Registry
	closers  []func() error
}

// newSession wires provider, metrics, scanner and, when save is set, the
// store and recorder.
func newSession(cfg config.Config, log *zap.Logger, source string, save bool) (*session, error) {
	s := &session{registry: prometheus.NewRegistry()}

	p, closeProvider, err := newProvider(cfg, log)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closeProvider)

	if save {
		st, err := store.NewStore(cfg.DB)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open store %s: %w", cfg.DB, err)
		}
		s.store = st
		s.closers = append(s.closers, st.Close)
	}

	m := metrics.New(s.registry)
	s.scanner = scan.NewScanner(p, cfg.Scan, log.Named("scan"), m)
	s.recorder = recorder.New(s.store, source, cfg.Provider.Kind, cfg.Scan, log)
	return s, nil
}

// Close releases resources in reverse order of acquisition.
func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openStore opens the configured database for read-only commands.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.NewStore(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.DB, err)
	}
	return st, nil
}

// #endregion session

// #region output

type outputOptions struct {
	format string
	color  bool
	width  int
}

// writeResult renders r as an ASCII or Markdown report, or as JSON.
func writeResult(w io.Writer, r *scan.Result, opts outputOptions) error {
	if strings.EqualFold(opts.format, "json") {
		return report.JSON(w, r)
	}
	mode, err := parseMode(opts.format)
	if err != nil {
		return err
	}
	if opts.color {
		text.EnableColors()
	}
	return report.RenderWith(w, r, report.Options{Mode: mode, Color: opts.color, TextWidth: opts.width})
}

func parseMode(format string) (report.Mode, error) {
	mode, ok := report.ParseMode(strings.ToLower(format))
	if !ok {
		return report.ASCII, fmt.Errorf("unknown format %q (want ascii, markdown or json)", format)
	}
	return mode, nil
}

// #endregion output
