package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/config"
	"github.com/mamadbah2/ganaderia/internal/repository"
	"github.com/mamadbah2/ganaderia/internal/repository/memory"
	"github.com/mamadbah2/ganaderia/internal/repository/mongodb"
	"github.com/mamadbah2/ganaderia/internal/repository/sheets"
	"github.com/mamadbah2/ganaderia/internal/scheduler"
	"github.com/mamadbah2/ganaderia/internal/server/handlers"
	"github.com/mamadbah2/ganaderia/internal/server/router"
	"github.com/mamadbah2/ganaderia/internal/service/backup"
	"github.com/mamadbah2/ganaderia/internal/service/dashboard"
	"github.com/mamadbah2/ganaderia/internal/service/herd"
	"github.com/mamadbah2/ganaderia/internal/service/importer"
	"github.com/mamadbah2/ganaderia/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to open record store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close record store", zap.Error(err))
		}
	}()

	now := cfg.Clock.Now()
	if !cfg.Clock.ReferenceTime.IsZero() {
		baseLogger.Warn("clock pinned to reference time", zap.Time("reference_time", cfg.Clock.ReferenceTime))
	}

	herdSvc := herd.NewService(store, now, logger.Named(baseLogger, "svc.herd"))
	if err := herdSvc.SeedUsers(context.Background()); err != nil {
		baseLogger.Fatal("failed to seed profiles", zap.Error(err))
	}
	dashboardSvc := dashboard.NewService(store, now, logger.Named(baseLogger, "svc.dashboard"))
	backupSvc := backup.NewService(store, now, logger.Named(baseLogger, "svc.backup"))
	workbookImporter := importer.New(now, logger.Named(baseLogger, "svc.importer"))

	var mirror sheets.RowWriter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		mirror = sheetsRepo
		baseLogger.Info("digest sheet mirror enabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Digest, dashboardSvc, mirror, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	handler := handlers.New(herdSvc, dashboardSvc, backupSvc, workbookImporter, logger.Named(baseLogger, "handlers"))
	engine := router.New(handler, cfg.Server, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		log.Warn("using in-memory store; records are lost on exit")
		return memory.NewStore(), nil
	default:
		return mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	}
}
