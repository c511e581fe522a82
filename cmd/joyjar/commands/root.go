// Package commands implements the joyjar command line
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/joyjar/internal/config"
	"github.com/benvon/joyjar/internal/logger"
	"github.com/benvon/joyjar/internal/reflection"
	"github.com/benvon/joyjar/internal/session"
	"github.com/benvon/joyjar/internal/storage"
	"github.com/benvon/joyjar/internal/store"
	"github.com/benvon/joyjar/internal/telemetry"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// app holds everything a command needs; it is built once per invocation
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	tp      *sdktrace.TracerProvider
	gateway *store.Gateway
	session *session.Session
}

// shutdownTracer is a package-level var to allow test injection
var shutdownTracer = telemetry.Shutdown

// runtime carries flags and the app between the root and its subcommands
type runtime struct {
	debug bool
	app   *app
}

func newApp(ctx context.Context, debugFlag bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.DebugMode || debugFlag

	var log *zap.Logger
	if debugMode {
		log, err = logger.NewDevelopmentLogger(true)
	} else {
		log, err = logger.NewProductionLogger(false)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}

	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, "joyjar", cfg.OTELEndpoint)
		if err != nil {
			log.Warn("tracer_init_failed", zap.String("error", logger.SanitizeError(err)))
		} else {
			a.tp = tp
		}
	}

	slot, err := storage.Open(ctx, cfg, log)
	if err != nil {
		a.stopTracer()
		_ = logger.Sync(log)
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	a.gateway = store.New(slot, log)
	a.session = session.New(ctx, a.gateway, reflection.New(cfg, log), log)

	log.Debug("joyjar_started",
		zap.String("storage", cfg.Storage),
		zap.Bool("ai_configured", cfg.OpenAIKey != ""),
	)
	return a, nil
}

func (a *app) close() {
	a.session.Wait()
	if err := a.gateway.Close(); err != nil {
		a.log.Warn("storage_close_failed", zap.String("error", logger.SanitizeError(err)))
	}
	a.stopTracer()
	_ = logger.Sync(a.log)
}

// stopTracer flushes and stops the tracer provider if one was started
func (a *app) stopTracer() {
	if a.tp == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(ctx, a.tp); err != nil {
		a.log.Warn("tracer_shutdown_failed", zap.String("error", logger.SanitizeError(err)))
	}
	a.tp = nil
}

// warnUnsaved tells the user when the last change only lives in memory
func (rt *runtime) warnUnsaved(cmd *cobra.Command) {
	if err := rt.app.session.LastSaveError(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.Warning.Render("Warning: change could not be saved: "+err.Error()))
	}
}

// shutdown closes the app if a command opened one
func (rt *runtime) shutdown() {
	if rt.app != nil {
		rt.app.close()
		rt.app = nil
	}
}

// Execute runs the command line with os.Args
func Execute(ctx context.Context) error {
	rootCmd, rt := newRootCmd()
	defer rt.shutdown()
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *runtime) {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:           "joyjar",
		Short:         "TheJoyJar: a private journal of daily wins",
		Long:          "Log small wins, look back over them, and ask a reflection coach for a summary.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), rt.debug)
			if err != nil {
				return err
			}
			rt.app = a
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVar(&rt.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newAddCmd(rt))
	rootCmd.AddCommand(newListCmd(rt))
	rootCmd.AddCommand(newDeleteCmd(rt))
	rootCmd.AddCommand(newCategoryCmd(rt))
	rootCmd.AddCommand(newTagCmd(rt))
	rootCmd.AddCommand(newSettingsCmd(rt))
	rootCmd.AddCommand(newStatsCmd(rt))
	rootCmd.AddCommand(newReflectCmd(rt))
	rootCmd.AddCommand(newHistoryCmd(rt))
	rootCmd.AddCommand(newExportCmd(rt))
	rootCmd.AddCommand(newImportCmd(rt))

	return rootCmd, rt
}
