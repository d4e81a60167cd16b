package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/internal/config"
	"github.com/iwvelando/rentability/internal/metrics"
	"github.com/iwvelando/rentability/internal/orchestrator"
	"github.com/iwvelando/rentability/internal/property"
	"github.com/iwvelando/rentability/internal/server"
	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/iwvelando/rentability/pkg/format"
	"github.com/iwvelando/rentability/pkg/output"
	"github.com/iwvelando/rentability/pkg/validation"
	"github.com/iwvelando/rentability/pkg/welcometax"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	logFormat := loggingConfig.Format
	if logFormat == "" {
		logFormat = "json"
	}

	var zapConfig zap.Config
	switch logFormat {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", logFormat)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "rentability [command]",
		Short:         "Rentability analyzes the profitability of income properties.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newAnalyzeCmd(&logLevel),
		newWelcomeTaxCmd(),
		newServeCmd(&logLevel),
		newVersionCmd(),
	)
	return root
}

func newAnalyzeCmd(logLevel *string) *cobra.Command {
	var configLocation, outputFormatFlag string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the property described in a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
			}

			logger, err := initializeLogger(conf.Logging, *logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			outputFormat := conf.Output.Format
			if outputFormatFlag != "" {
				outputFormat = outputFormatFlag
			}
			if outputFormat == "" {
				outputFormat = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			warnings := conf.ValidateConfiguration()
			for _, warning := range warnings {
				logger.Warn("Configuration warning: "+warning,
					zap.String("op", "main.analyze"),
				)
			}

			return analyze(cmd.OutOrStdout(), logger, conf, outputFormat, warnings)
		},
	}

	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, json")
	return cmd
}

// analyze runs the configured property through the recompute pipeline once
// and writes the published result.
func analyze(w io.Writer, logger *zap.Logger, conf *config.Configuration, outputFormat string, warnings []string) error {
	opts, err := conf.EngineOptions()
	if err != nil {
		return fmt.Errorf("invalid analysis options: %w", err)
	}

	mode := conf.Mode()
	store := property.NewStore(nil)
	orch := orchestrator.New(logger, orchestrator.Config{
		State:  store,
		Locked: conf.LockedFields,
		Engine: analysis.NewEngine(logger, opts),
	})
	defer orch.Close()

	store.Subscribe(func(property.Property) { orch.Notify(mode) })
	store.Replace(conf.Property)
	orch.Wait()

	result, ok := orch.Latest()
	if !ok {
		return errors.New("no analysis was published")
	}

	current := store.CurrentValue()
	name := current.Text(property.Address)
	if name == "" {
		name = "property"
	}

	return output.Write(w, outputFormat, []output.Report{{
		Name:        name,
		ExpenseMode: mode.String(),
		Result:      result,
		Warnings:    warnings,
	}})
}

func newWelcomeTaxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "welcome-tax <price>",
		Short: "Compute the property transfer duty for a purchase price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			for _, b := range welcometax.Breakdown(price) {
				upper := format.Currency(b.Upper)
				if b.Open {
					upper = "and above"
				}
				fmt.Fprintf(w, "%15s - %-15s %6s  %12s\n",
					format.Currency(b.Lower), upper, format.Percent(b.Rate*constants.PercentageMultiplier), format.Currency(b.Tax))
			}
			fmt.Fprintf(w, "Welcome tax: %s\n", format.Currency(welcometax.Compute(price)))
			return nil
		},
	}
}

func newServeCmd(logLevel *string) *cobra.Command {
	var serverConfigLocation string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigLocation)
			if err != nil {
				return fmt.Errorf("failed to load server configuration at %s: %w", serverConfigLocation, err)
			}

			logger, err := initializeLogger(cfg.Logging, *logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			engine, locked, err := server.EngineFromConfig(logger, cfg.AnalysisConfig)
			if err != nil {
				return err
			}

			handler := server.NewHandler(logger, server.Options{
				MaxUploadSize: cfg.UploadSizeBytes(),
				Version:       version,
				Engine:        engine,
				LockedFields:  &locked,
				Metrics:       metrics.New(metrics.Options{Runtime: true}),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, server.NewServer(cfg, handler))
		},
	}

	cmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, logger *zap.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", srv.Addr),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
