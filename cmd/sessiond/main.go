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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sessiond/internal/config"
	"sessiond/internal/engine"
	"sessiond/internal/httpapi"
	"sessiond/internal/lifecycle"
	"sessiond/internal/probe"
	"sessiond/internal/registry"
)

const (
	defaultAddr      = ":8080"
	defaultEngineCtx = 2048
)

func main() {
	root := buildRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var (
		flagConfig      string
		flagAddr        string
		flagModelsDir   string
		flagModel       string
		flagLogLevel    string
		flagEngineCtx   int
		flagThreads     int
		flagCORSOrigins []string
		flagInitOnStart bool
	)

	root := &cobra.Command{
		Use:           "sessiond",
		Short:         "Local LLM inference session daemon",
		Long:          "sessiond probes the host for a usable compute backend, manages a single inference session, and serves generation over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			if flagConfig != "" {
				loaded, err := config.Load(flagConfig)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			// Flags win over file values when set.
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = flagAddr
			}
			if cmd.Flags().Changed("models-dir") || cfg.ModelsDir == "" {
				cfg.ModelsDir = flagModelsDir
			}
			if cmd.Flags().Changed("model") {
				cfg.DefaultModel = flagModel
			}
			if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = flagLogLevel
			}
			if cmd.Flags().Changed("engine-ctx") || cfg.EngineCtx == 0 {
				cfg.EngineCtx = flagEngineCtx
			}
			if cmd.Flags().Changed("engine-threads") {
				cfg.EngineThreads = flagThreads
			}
			if cmd.Flags().Changed("cors-origins") {
				cfg.CORSOrigins = flagCORSOrigins
			}
			return run(cfg, flagInitOnStart)
		},
	}

	root.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&flagAddr, "addr", defaultAddr, "HTTP listen address, e.g. :8080")
	root.Flags().StringVar(&flagModelsDir, "models-dir", "~/models/llm", "Directory to scan for *.gguf model files")
	root.Flags().StringVar(&flagModel, "model", "", "Default model id when a request omits model")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	root.Flags().IntVar(&flagEngineCtx, "engine-ctx", defaultEngineCtx, "Engine context window size")
	root.Flags().IntVar(&flagThreads, "engine-threads", 0, "Engine CPU threads (0 = auto)")
	root.Flags().StringSliceVar(&flagCORSOrigins, "cors-origins", nil, "Allowed CORS origins for browser frontends")
	root.Flags().BoolVar(&flagInitOnStart, "init-on-start", false, "Initialize the session at startup instead of on first request")
	return root
}

func run(cfg config.Config, initOnStart bool) error {
	logger := newLogger(cfg.LogLevel)

	models, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		// A missing models dir only matters for disk-backed engines; the
		// daemon still serves probe/status.
		logger.Warn().Err(err).Str("dir", cfg.ModelsDir).Msg("model registry unavailable")
	}
	var resolver engine.PathResolver
	if len(models) > 0 {
		resolver = func(id string) (string, error) { return registry.Resolve(models, id) }
	}
	defaultModel := registry.DefaultModel(models, cfg.DefaultModel)
	if defaultModel == "" {
		defaultModel = cfg.DefaultModel
	}

	mgr := lifecycle.NewWithConfig(lifecycle.ManagerConfig{
		Engine:       engine.NewLlamaEngine(cfg.EngineCtx, cfg.EngineThreads, resolver),
		Prober:       probe.New(nil, logger),
		Logger:       logger,
		DefaultModel: defaultModel,
		SystemPrompt: cfg.SystemPrompt,
	})
	defer mgr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpapi.SetLogger(logger)
	httpapi.SetBaseContext(ctx)
	httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins)

	if initOnStart {
		go func() {
			if !mgr.Initialize(ctx, "") {
				logger.Warn().Msg("startup initialize failed, will retry on request")
			}
		}()
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Str("default_model", defaultModel).Msg("sessiond listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	logger.Info().Msg("sessiond stopped")
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && level != "" {
		lvl = parsed
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
