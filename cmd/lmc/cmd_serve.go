package main

import (
	"github.com/spf13/cobra"

	"github.com/quantum-lichen/LMC-Scanner/internal/server"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve exposes the scanner over HTTP:

  POST   /api/scan        {"topic": "...", "text": "..."}
  GET    /api/scans       ?limit=N
  GET    /api/scans/{id}
  DELETE /api/scans/{id}
  GET    /api/health
  GET    /metrics         Prometheus exposition`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := app.cfg
	if serveFlags.addr != "" {
		cfg.HTTP.Addr = serveFlags.addr
	}

	s, err := newSession(cfg, app.log, "http", true)
	if err != nil {
		return err
	}
	defer s.Close()

	srv := server.New(s.scanner, s.store, s.recorder, s.registry, cfg.HTTP, app.log.Named("http"))
	return srv.Start(cmd.Context())
}
