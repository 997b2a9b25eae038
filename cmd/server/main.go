/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the calendar-agent server. Handles configuration,
  logging, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (file, environment, defaults)
  2. Initialize structured logging (console or rotated file)
  3. Build the holiday source (remote, builtin rules, or fallback pair)
  4. Create the API handler with its dependencies
  5. Start the server with graceful shutdown

HOLIDAY SOURCE MODES:
  nager    Remote Nager.Date API only
  builtin  Embedded statutory rules only (no network)
  auto     Remote with rule-based fallback (default)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (configurable timeout)
  3. Exit

EXAMPLES:
  # Run with defaults (port 8080, auto holiday source)
  ./calendar-agent

  # Run with a config file
  ./calendar-agent --config=./configs/config.yaml

  # Override a single knob through the environment
  CALENDAR_AGENT_SERVER_PORT=3000 ./calendar-agent

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Configuration schema
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/daymark/calendar-agent/agent"
	"github.com/daymark/calendar-agent/api"
	"github.com/daymark/calendar-agent/calendar"
	"github.com/daymark/calendar-agent/config"
	"github.com/daymark/calendar-agent/provider"
	"github.com/daymark/calendar-agent/provider/nager"
	"github.com/daymark/calendar-agent/provider/rules"
	"github.com/daymark/calendar-agent/provider/wiki"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "calendar-agent",
		Short: "Calendar intelligence API for autonomous agents",
		Long: "Serves public holidays, business-day arithmetic, date facts and " +
			"on-this-day events over a metered HTTP API.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger, err := initLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			return run(cfg, logger)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	source := buildHolidaySource(cfg, logger)
	cal := calendar.NewBusinessCalendar(source, logger)
	events := wiki.NewClient(cfg.Events.BaseURL, cfg.Events.Language, cfg.Events.UserAgent, cfg.Events.Timeout, logger)
	manifest := agent.NewManifest(cfg.Agent.Name, cfg.Agent.Version, cfg.Agent.Currency)

	handler := api.NewHandler(cal, events, manifest, logger)
	router := api.NewRouter(handler, agent.NewPricer(manifest), logger)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("holiday_source", cfg.Holidays.Source),
			zap.String("version", cfg.Agent.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// buildHolidaySource wires the holiday source the config asks for.
func buildHolidaySource(cfg *config.Config, logger *zap.Logger) calendar.HolidaySource {
	remote := nager.NewClient(cfg.Holidays.BaseURL, cfg.Holidays.Timeout, logger)
	builtin := rules.NewSource(logger)

	switch cfg.Holidays.Source {
	case "nager":
		return remote
	case "builtin":
		return builtin
	default: // auto
		return provider.NewFallback(remote, builtin, logger)
	}
}

// initLogger builds the application logger: JSON to stderr by default, or a
// size-rotated file when one is configured.
func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.File == "" {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(level)
		zcfg.EncoderConfig.TimeKey = "timestamp"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return zcfg.Build()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}),
		level,
	)
	return zap.New(core), nil
}
