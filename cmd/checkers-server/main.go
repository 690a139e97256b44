// Package main runs the checkers API server: game hosting, computer seats on
// an engine worker pool, optional SQLite history.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkers/cmd/checkers-server/cli"
	"checkers/internal/config"
	"checkers/internal/http"
	"checkers/internal/logger"
	"checkers/internal/processor"
	"checkers/internal/service"
	"checkers/internal/storage"

	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Database maintenance subcommands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var (
		configPath = flag.String("config", "", "Optional config file (yaml, json or toml)")
		_          = flag.String("api-host", "localhost", "API server host")
		_          = flag.Int("api-port", 8080, "API server port")
		_          = flag.Bool("dev", false, "Development mode (relaxed rate limits, console logs, fixed secret)")
		_          = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		_          = flag.String("pid", "", "Optional path to write PID file")
		_          = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		_          = flag.Int("workers", processor.DefaultWorkers, "Engine worker count")
		_          = flag.Duration("search-timeout", processor.DefaultSearchTimeout, "Per-search timeout")
		_          = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		_          = flag.Bool("seat-tokens", true, "Issue seat tokens for human players")
	)
	flag.Parse()

	// Only flags given on the command line override file and environment
	overrides := make(map[string]any)
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			return
		}
		overrides[f.Name] = f.Value.(flag.Getter).Get()
	})

	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(cfg.LogLevel, cfg.Dev)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Errorw("server failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	if cfg.PIDPath != "" {
		cleanup, err := managePIDFile(cfg.PIDPath, cfg.PIDLock)
		if err != nil {
			return fmt.Errorf("failed to manage PID file: %w", err)
		}
		defer cleanup()
		log.Infow("PID file created", "path", cfg.PIDPath, "lock", cfg.PIDLock)
	}

	// 1. Storage (optional)
	var store *storage.Store
	if cfg.StoragePath != "" {
		log.Infow("initializing persistent storage", "path", cfg.StoragePath)
		var err error
		store, err = storage.NewStore(cfg.StoragePath, cfg.Dev, log.Named("storage"))
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		if err := store.InitDB(); err != nil {
			store.Close()
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warnw("failed to close storage cleanly", "error", err)
			}
		}()
	} else {
		log.Info("persistent storage disabled (use -storage-path to enable)")
	}

	jwtSecret, err := seatSecret(cfg, log)
	if err != nil {
		return err
	}

	// 2. Service with optional storage and seat tokens
	svc := service.New(store, jwtSecret, log.Named("service"))

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go svc.RunCleanupJob(cleanupCtx, service.CleanupJobInterval)

	// 3. Processor with the engine worker pool
	proc := processor.New(svc, processor.Config{
		Workers:       cfg.Workers,
		SearchTimeout: cfg.SearchTimeout,
	}, log.Named("processor"))

	// 4. HTTP
	app := http.NewFiberApp(proc, svc, http.AppConfig{
		DevMode:   cfg.Dev,
		RateLimit: cfg.RateLimit,
		AccessLog: cfg.AccessLog,
	})

	addr := cfg.Addr()
	listenErr := make(chan error, 1)
	go func() {
		log.Infow("checkers API server starting",
			"addr", "http://"+addr,
			"version", "v1",
			"workers", cfg.Workers,
			"rateLimit", cfg.RateLimit,
			"dev", cfg.Dev,
			"seatTokens", jwtSecret != nil,
			"storage", cfg.StoragePath != "",
		)
		listenErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down server")
	case err := <-listenErr:
		if err != nil {
			log.Errorw("API server listen error", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warnw("server forced to shutdown", "error", err)
	}

	if err := proc.Close(); err != nil {
		log.Warnw("processor close error", "error", err)
	}

	cleanupCancel()

	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Warnw("service shutdown error", "error", err)
	}

	log.Info("server exited")
	return nil
}

// seatSecret picks the HS256 secret for seat tokens; nil disables them
func seatSecret(cfg *config.Config, log *zap.SugaredLogger) ([]byte, error) {
	switch {
	case !cfg.SeatTokens:
		log.Info("seat tokens disabled, any client may move for any human seat")
		return nil, nil
	case cfg.JWTSecret != "":
		return []byte(cfg.JWTSecret), nil
	case cfg.Dev:
		// Fixed secret in dev mode for testing consistency
		log.Info("using fixed seat token secret (dev mode)")
		return []byte("dev-secret-minimum-32-characters-long"), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate seat token secret: %w", err)
	}
	log.Info("seat token secret generated (tokens valid until restart)")
	return secret, nil
}
