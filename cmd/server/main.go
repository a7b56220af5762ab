package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/radioguessr/internal/catalog"
	"github.com/playperu/radioguessr/internal/config"
	"github.com/playperu/radioguessr/internal/game"
	"github.com/playperu/radioguessr/internal/gateway"
	"github.com/playperu/radioguessr/internal/handler/health"
	"github.com/playperu/radioguessr/internal/metrics"
	"github.com/playperu/radioguessr/internal/playback"
	"github.com/playperu/radioguessr/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Metrics ---
	recorder, metricsHandler, shutdownMetrics, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		return fmt.Errorf("setting up metrics: %w", err)
	}
	defer shutdownMetrics(context.Background())

	// --- Gateway ---
	upstream := gateway.NewUpstream(gateway.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	logger.Info("relaying content", "upstream", cfg.Upstream.BaseURL)

	checks := map[string]health.Checker{"upstream": upstream}
	opts := server.Options{
		Gateway:  gateway.NewHandler(upstream, logger, recorder).Routes(),
		Metrics:  metricsHandler,
		Recorder: recorder,
	}

	// --- Game ---
	if cfg.Game.Enabled {
		sessions := newSessions(cfg, recorder, logger)
		defer sessions.Close()

		opts.Sessions = sessions
		checks["sessions"] = health.CheckerFunc(func(context.Context) error {
			if sessions.Full() {
				return errors.New("session limit reached")
			}
			return nil
		})
		logger.Info("game enabled", "gateway", cfg.GatewayBaseURL, "max_sessions", cfg.Game.MaxSessions)
	}
	opts.Health = health.NewHandler(logger, checks).Routes()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, opts)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// newSessions wires each session's engine to the gateway through the
// catalog client and the playback probe.
func newSessions(cfg *config.Config, recorder *metrics.Recorder, logger *slog.Logger) *server.Sessions {
	source := catalog.NewClient(catalog.Config{BaseURL: cfg.GatewayBaseURL})
	player := playback.NewProbe(nil, cfg.Playback.StartupTimeout)
	selector := game.NewSelector(source, cfg.Round.SelectTimeout)

	return server.NewSessions(cfg.Game.MaxSessions, func(id string, n game.Notifier) *game.Engine {
		return game.NewEngine(selector, player, game.Config{
			MaxAttempts:    cfg.Round.MaxAttempts,
			InitialBackoff: cfg.Round.InitialBackoff,
			MaxBackoff:     cfg.Round.MaxBackoff,
			Notifier:       n,
		}, logger.With("session", id))
	}, recorder, logger)
}
