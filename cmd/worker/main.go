package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/flock"

	"github.com/fhuszti/media-pipeline-go/internal/config"
	"github.com/fhuszti/media-pipeline-go/internal/db"
	"github.com/fhuszti/media-pipeline-go/internal/handler/api"
	"github.com/fhuszti/media-pipeline-go/internal/logger"
	"github.com/fhuszti/media-pipeline-go/internal/middleware"
	"github.com/fhuszti/media-pipeline-go/internal/optimiser"
	"github.com/fhuszti/media-pipeline-go/internal/port"
	"github.com/fhuszti/media-pipeline-go/internal/repository/mariadb"
	"github.com/fhuszti/media-pipeline-go/internal/scheduler"
	"github.com/fhuszti/media-pipeline-go/internal/storage"
	"github.com/fhuszti/media-pipeline-go/internal/transcoder"
	"github.com/fhuszti/media-pipeline-go/internal/usecase/pipeline"
)

func main() {
	logger.Init()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	// One coordinator per asset store: a second daemon against the same
	// database would double-claim batches.
	lock := acquireLock(ctx, cfg)
	defer func() {
		_ = lock.Unlock()
	}()

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg := initStorage(cfg)
	repo := mariadb.NewAssetRepository(database.DB)

	tools := transcoder.ResolveToolPaths(runtime.GOOS, cfg.FFmpegPath, cfg.FFprobePath)
	trans := transcoder.NewFFmpegTranscoder(transcoder.ExecRunner{}, tools)
	opt := optimiser.NewJPEGOptimiser()

	coord := pipeline.NewCoordinator(repo, strg, trans, opt, port.ClockFunc(time.Now), pipeline.Config{
		BatchSize:                cfg.BatchSize,
		TempDir:                  cfg.TempDir,
		PhotoOptimizationEnabled: cfg.PhotoOptimizationEnabled,
		PhotoMaxWidth:            cfg.PhotoMaxWidth,
		PhotoMaxHeight:           cfg.PhotoMaxHeight,
		PhotoJPEGQuality:         cfg.PhotoJPEGQuality,
		PhotoSourcePrefix:        cfg.PhotoSourcePrefix,
		PhotoOptimizedPrefix:     cfg.PhotoOptimizedPrefix,
		VideoPlaybackPrefix:      cfg.VideoPlaybackPrefix,
		RehomePhotos:             cfg.RehomePhotos,
	})

	sched := scheduler.New(coord, time.Duration(cfg.PollIntervalSeconds)*time.Second, cfg.PipelineEnabled)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := sched.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf(ctx, "❌  Scheduler failed: %v", err)
		}
	}()
	logger.Info(ctx, "🚀 Pipeline worker started")

	srv := startOpsServer(cfg, sched, repo)

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf(ctx, "ops server shutdown error: %v", err)
	}
	logger.Info(ctx, "✅  Pipeline worker gracefully stopped")
}

func acquireLock(ctx context.Context, cfg *config.Settings) *flock.Flock {
	lockPath := cfg.LockFile
	if !filepath.IsAbs(lockPath) {
		lockPath = filepath.Join(cfg.TempDir, lockPath)
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to acquire lock %q: %v", lockPath, err)
		os.Exit(1)
	}
	if !locked {
		logger.Errorf(ctx, "❌  Another pipeline worker already holds %q", lockPath)
		os.Exit(1)
	}
	return lock
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(cfg *config.Settings) port.Storage {
	strg, err := storage.NewMinioGateway(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
		cfg.MinioBucket,
		filepath.Join(cfg.TempDir, "media-cache"),
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}
	return strg
}

func startOpsServer(cfg *config.Settings, sched *scheduler.Scheduler, repo port.AssetRepository) *http.Server {
	statusAuth := middleware.WithStatusAuth(cfg.StatusJWTPublicKey)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", api.HealthzHandler())
	r.With(statusAuth).Get("/status", api.StatusHandler(sched, repo))
	r.With(statusAuth, middleware.WithAssetID()).
		Get("/status/assets/{id}", api.AssetHandler(repo))

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.ServerPort),
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(context.Background(), "❌  Ops server failed: %v", err)
			os.Exit(1)
		}
	}()
	return srv
}
