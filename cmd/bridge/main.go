// Command bridge runs the TypeBridge gRPC service: it loads a
// config.BridgeConfig, constructs the configured oracle backend
// (oracle/protodesc or oracle/gosource), and serves internal/bridgesvc
// until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/funvibe/typebridge/internal/bridgelog"
	"github.com/funvibe/typebridge/internal/bridgesvc"
	"github.com/funvibe/typebridge/internal/config"
	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/oracle/gosource"
	"github.com/funvibe/typebridge/internal/oracle/protodesc"
	"github.com/funvibe/typebridge/internal/projection"
	"github.com/funvibe/typebridge/internal/roundstore"
)

func main() {
	configPath := flag.String("config", "", "path to bridge config file (yaml); defaults are used when empty")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "bridge:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	log := bridgelog.New(os.Stderr, parseLevel(cfg.LogLevel))

	o, err := buildOracle(&cfg)
	if err != nil {
		return fmt.Errorf("building oracle backend %s: %w", cfg.Backend, err)
	}

	rounds, err := roundstore.Open(cfg.RoundStorePath)
	if err != nil {
		return fmt.Errorf("opening round store: %w", err)
	}
	defer rounds.Close()

	cache := projection.NewCache()
	svc := bridgesvc.New(string(cfg.Backend), o, cache, rounds, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return svc.Serve(ctx, cfg.ListenAddr)
}

// buildOracle constructs the oracle.Oracle backend cfg selects, mirroring
// how cmd/lsp/main.go chooses its own mode at startup from a single
// config flag.
func buildOracle(cfg *config.BridgeConfig) (oracle.Oracle, error) {
	switch cfg.Backend {
	case config.BackendProtoDesc:
		return protodesc.Load(cfg.ProtoDescriptorSetPath)
	case config.BackendGoSource:
		return gosource.Load(cfg.GoSourcePatterns...)
	default:
		return nil, fmt.Errorf("unknown oracle backend %q", cfg.Backend)
	}
}

func parseLevel(s string) bridgelog.Level {
	switch s {
	case "debug":
		return bridgelog.LevelDebug
	case "warn":
		return bridgelog.LevelWarn
	case "error":
		return bridgelog.LevelError
	default:
		return bridgelog.LevelInfo
	}
}
