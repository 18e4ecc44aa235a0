package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/manpreetbhatti/sketchroom/internal/api"
	"github.com/manpreetbhatti/sketchroom/internal/hub"
	"github.com/manpreetbhatti/sketchroom/internal/room"
	"github.com/manpreetbhatti/sketchroom/internal/stats"
	"github.com/manpreetbhatti/sketchroom/internal/ws"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sketchroom",
		Short:         "Authoritative server for collaborative drawing rooms",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.Int("send-buffer", 512, "per-session outbound queue size")
	flags.Int64("max-message-bytes", 1024*1024, "maximum inbound frame size")
	flags.Float64("rate", 100, "inbound messages per second per connection")
	flags.Int("burst", 200, "inbound message burst per connection")
	flags.Duration("stats-interval", 30*time.Second, "metrics sampling interval")
	flags.Bool("dev", false, "console logging for development")

	viper.BindPFlags(flags)
	viper.SetEnvPrefix("SKETCHROOM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := buildLogger(viper.GetBool("dev"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry := room.NewRegistry(logger)
	h := hub.New(registry, viper.GetInt("send-buffer"), logger)

	statsSvc := stats.New(registry, stats.Config{
		Interval: viper.GetDuration("stats-interval"),
	}, logger)
	statsSvc.Start()
	defer statsSvc.Stop()

	wsCfg := ws.Config{
		MaxMessageBytes: viper.GetInt64("max-message-bytes"),
		Rate:            viper.GetFloat64("rate"),
		Burst:           viper.GetInt("burst"),
	}

	mux := chi.NewRouter()
	mux.Get("/ws", ws.Handler(h, wsCfg, logger))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Mount("/", api.New(registry, logger).Routes())

	addr := viper.GetString("addr")
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🎨 sketchroom server starting", zap.String("addr", addr))
		logger.Info("endpoints",
			zap.String("websocket", "/ws?room={name}"),
			zap.String("health", "/healthz"),
			zap.String("stats", "/api/stats"),
			zap.String("rooms", "/api/rooms"),
			zap.String("metrics", "/metrics"))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
