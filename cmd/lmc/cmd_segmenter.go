package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/quantum-lichen/LMC-Scanner/internal/codec"
	"github.com/quantum-lichen/LMC-Scanner/internal/config"
)

var segmenterFlags struct {
	addr    string
	backend string
}

var segmenterCmd = &cobra.Command{
	Use:   "segmenter",
	Short: "Serve a coherence provider over gRPC",
	Long: `Segmenter exposes the lexical or Ollama provider as the
lmc.v1.Segmenter gRPC service, so scanners configured with provider.kind=grpc
can share one model host.`,
	Args: cobra.NoArgs,
	RunE: runSegmenter,
}

func init() {
	f := segmenterCmd.Flags()
	f.StringVar(&segmenterFlags.addr, "addr", ":50061", "Listen address")
	f.StringVar(&segmenterFlags.backend, "backend", "", "lexical or ollama (default: provider.kind from config)")
}

func runSegmenter(cmd *cobra.Command, _ []string) error {
	cfg := app.cfg
	if segmenterFlags.backend != "" {
		cfg.Provider.Kind = segmenterFlags.backend
	}
	if cfg.Provider.Kind == config.ProviderGRPC {
		return fmt.Errorf("segmenter backend cannot be %q", config.ProviderGRPC)
	}

	p, closeProvider, err := newProvider(cfg, app.log)
	if err != nil {
		return err
	}
	defer closeProvider()

	lis, err := net.Listen("tcp", segmenterFlags.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", segmenterFlags.addr, err)
	}

	gs := grpc.NewServer()
	codec.RegisterSegmenterServer(gs, codec.NewServer(p, app.log.Named("segmenter")))

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		gs.GracefulStop()
	}()

	app.log.Info("segmenter listening", zap.String("addr", lis.Addr().String()), zap.String("backend", cfg.Provider.Kind))
	if err := gs.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}
