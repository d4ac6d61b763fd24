package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutor-verify-api/api/swagger"
	"github.com/noah-isme/tutor-verify-api/internal/handler"
	"github.com/noah-isme/tutor-verify-api/internal/middleware"
	"github.com/noah-isme/tutor-verify-api/internal/repository"
	"github.com/noah-isme/tutor-verify-api/internal/service"
	"github.com/noah-isme/tutor-verify-api/internal/store"
	"github.com/noah-isme/tutor-verify-api/pkg/cache"
	"github.com/noah-isme/tutor-verify-api/pkg/config"
	"github.com/noah-isme/tutor-verify-api/pkg/database"
	"github.com/noah-isme/tutor-verify-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutor-verify-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutor-verify-api/pkg/middleware/requestid"
	"github.com/noah-isme/tutor-verify-api/pkg/storage"
)

// @title Tutor Verify API
// @version 0.1.0
// @description Tutor credential verification workflow
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	persister, err := newPersister(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init snapshot backend", "backend", cfg.Snapshot.Backend, "error", err)
	}

	workflow := store.New(persister, logr)
	if err := workflow.Open(ctx); err != nil {
		logr.Sugar().Fatalw("failed to open workflow store", "error", err)
	}

	metrics := service.NewMetricsService()
	go func() {
		for range workflow.Subscribe() {
			metrics.ObserveSnapshotCommit()
		}
	}()

	verification := service.NewVerificationService(workflow, logr,
		service.WithUploadLatency(cfg.Uploads.SimulatedLatency),
		service.WithPlaceholderURL(cfg.Uploads.PlaceholderURL),
		service.WithWorkflowMetrics(metrics),
	)

	var exports *service.ExportService
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exports = service.NewExportService(workflow, files, signer, cfg.APIPrefix, logr)
		exports.StartWorkers(ctx, service.ExportQueueConfig{
			Workers: cfg.Exports.WorkerConcurrency,
			Retries: cfg.Exports.WorkerRetries,
		})
		defer exports.StopWorkers()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, verification, exports)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "snapshot_backend", cfg.Snapshot.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func registerRoutes(r *gin.Engine, cfg *config.Config, verification *service.VerificationService, exports *service.ExportService) {
	tutors := handler.NewTutorHandler(verification)
	applications := handler.NewApplicationHandler(verification)
	hardcopies := handler.NewHardcopyHandler(verification)
	dataflow := handler.NewDataFlowHandler(verification)

	api := r.Group(cfg.APIPrefix)

	api.GET("/tutors", tutors.List)
	api.GET("/tutors/:id", tutors.Get)
	api.PUT("/tutors/:id", tutors.UpdateProfile)
	api.GET("/tutors/:id/application", tutors.GetApplication)
	api.POST("/tutors/:id/application", tutors.SubmitApplication)

	api.GET("/applications", applications.List)
	api.GET("/applications/:id", applications.Get)
	api.POST("/applications/:id/decision", applications.Decide)
	api.GET("/applications/:id/documents", applications.ListDocuments)
	api.POST("/applications/:id/documents", applications.UploadDocuments)
	api.POST("/applications/:id/hardcopy-requests", applications.CreateHardcopyRequest)

	api.GET("/hardcopy-requests", hardcopies.List)
	api.POST("/hardcopy-requests/:id/decision", hardcopies.Decide)

	if cfg.DataFlow.Enabled {
		api.GET("/dataflow", dataflow.Get)
		api.POST("/admin/reset", dataflow.Reset)
	}

	if exports != nil {
		exportHandler := handler.NewExportHandler(exports)
		api.POST("/exports", exportHandler.Create)
		api.GET("/exports/download", exportHandler.Download)
		api.GET("/exports/:id", exportHandler.Get)
	}
}

func newPersister(cfg *config.Config) (store.Persister, error) {
	switch cfg.Snapshot.Backend {
	case config.SnapshotBackendRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisSnapshotRepository(client, cfg.Snapshot.Key), nil
	case config.SnapshotBackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresSnapshotRepository(db, cfg.Snapshot.Key), nil
	case config.SnapshotBackendFile, "":
		files, err := storage.NewLocalStorage(cfg.Snapshot.DataDir)
		if err != nil {
			return nil, err
		}
		return repository.NewFileSnapshotRepository(files, cfg.Snapshot.Key), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}
