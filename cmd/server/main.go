package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"wordhunt/internal/app"
	"wordhunt/internal/config"
	"wordhunt/internal/dictionary"
	"wordhunt/internal/snapshot"
	httptransport "wordhunt/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "wordhunt",
		Short:         "Multiplayer grid word-hunt session server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(config.Load(v))
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.String("host", "0.0.0.0", "address to bind to (env: WORDHUNT_HOST)")
	fs.StringP("port", "p", "8080", "port to listen on (env: WORDHUNT_PORT)")
	fs.String("env", "development", "deployment environment (env: WORDHUNT_ENV)")
	fs.String("log-level", "info", "log level (env: WORDHUNT_LOG_LEVEL)")
	fs.Duration("host-grace", 5*time.Minute, "host reconnect grace window (env: WORDHUNT_HOST_GRACE)")
	fs.Duration("player-grace", 45*time.Second, "participant reconnect grace window (env: WORDHUNT_PLAYER_GRACE)")
	fs.Duration("arbitration-timeout", 60*time.Second, "host validation window after round end (env: WORDHUNT_ARBITRATION_TIMEOUT)")
	fs.String("dictionary-url", "", "base URL of the advisory dictionary service (env: WORDHUNT_DICTIONARY_URL)")
	fs.String("redis-addr", "", "redis address for best-effort room snapshots (env: WORDHUNT_REDIS_ADDR)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func run(cfg *config.Config) error {
	logger := newLogger(cfg)

	logger.Info().
		Str("env", cfg.Server.Env).
		Str("port", cfg.Server.Port).
		Msg("starting wordhunt server")

	var dict dictionary.Lookup = dictionary.None{}
	if cfg.Dictionary.BaseURL != "" {
		dict = dictionary.NewClient(cfg.Dictionary.BaseURL, logger)
	} else {
		logger.Warn().Msg("no dictionary configured, every word routes to host arbitration")
	}

	var store snapshot.Store = snapshot.Noop{}
	if cfg.Snapshot.RedisAddr != "" {
		redisStore := snapshot.NewRedis(cfg.Snapshot.RedisAddr)
		defer redisStore.Close()
		store = redisStore
	} else {
		logger.Warn().Msg("no snapshot store configured, rooms are purely in-memory")
	}

	registry := app.NewRegistry(cfg, dict, store, logger)
	defer registry.Close()

	server := httptransport.NewServer(cfg, registry, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
	return nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.IsDevelopment() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}
