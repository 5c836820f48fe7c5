package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"mlxd/internal/config"
	"mlxd/internal/engine"
	"mlxd/internal/httpapi"
	"mlxd/internal/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "mlxd",
		Short:         "OpenAI-compatible inference server for locally hosted models",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	fl := root.Flags()
	fl.StringVar(&cfgPath, "config", "", "Optional config file (.yaml/.json/.toml); flags override file values")
	fl.String("addr", envOr("MLXD_ADDR", ":8000"), "HTTP listen address")
	fl.String("models-dir", "~/models", "Directory holding model weights")
	fl.Int("max-resident", 0, "Soft cap on resident models (0 = unbounded)")
	fl.StringSlice("allowed-origins", nil, "CORS allowed origins (empty disables CORS)")
	fl.String("log-level", envOr("MLXD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	fl.String("log-file", "", "Log file path with rotation (empty logs to stderr)")
	fl.Int64("max-body-bytes", 0, "Maximum request body size in bytes (0 = default 1MiB)")
	fl.Int("llama-ctx", 2048, "Context size for the llama backend")
	fl.Int("llama-threads", 0, "Threads for the llama backend (0 = backend default)")
	return root
}

// resolveConfig merges the optional config file with flag values. A flag set
// on the command line always wins over the file.
func resolveConfig(cmd *cobra.Command, cfgPath string) (config.Config, error) {
	var cfg config.Config
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	fl := cmd.Flags()
	getS := func(name, cur string) string {
		if v, _ := fl.GetString(name); fl.Changed(name) || cur == "" {
			return v
		}
		return cur
	}
	getI := func(name string, cur int) int {
		if v, _ := fl.GetInt(name); fl.Changed(name) || cur == 0 {
			return v
		}
		return cur
	}
	cfg.Addr = getS("addr", cfg.Addr)
	cfg.ModelsDir = getS("models-dir", cfg.ModelsDir)
	cfg.MaxResident = getI("max-resident", cfg.MaxResident)
	cfg.LogLevel = getS("log-level", cfg.LogLevel)
	cfg.LogFile = getS("log-file", cfg.LogFile)
	cfg.LlamaCtx = getI("llama-ctx", cfg.LlamaCtx)
	cfg.LlamaThreads = getI("llama-threads", cfg.LlamaThreads)
	if fl.Changed("allowed-origins") || len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins, _ = fl.GetStringSlice("allowed-origins")
	}
	if v, _ := fl.GetInt64("max-body-bytes"); fl.Changed("max-body-bytes") || cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = v
	}
	return cfg, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func run(cfg config.Config) error {
	logger := newLogger(cfg)

	loader := engine.NewLlamaLoader(cfg.ModelsDir, cfg.LlamaCtx, cfg.LlamaThreads)
	reg := registry.New(registry.Config{
		Loader:      loader,
		MaxResident: cfg.MaxResident,
	})

	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(len(cfg.AllowedOrigins) > 0, cfg.AllowedOrigins)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(reg)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Msg("mlxd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase() // stops in-flight generation at the next token boundary
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
