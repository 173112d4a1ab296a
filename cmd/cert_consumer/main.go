package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	ceworkflow "github.com/RotationHub/CECert/internal/ce_workflow"
	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/database"
	"github.com/RotationHub/CECert/internal/env"
	filestorage "github.com/RotationHub/CECert/internal/file_storage"
	"github.com/RotationHub/CECert/internal/queue"
	"github.com/RotationHub/CECert/internal/repository"
	"github.com/RotationHub/CECert/internal/scheduler"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/RotationHub/CECert/pkg/cecert"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

// Renders approved certificates from the render queue and runs the stale render reconciler.
func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	s3, err := filestorage.NewMinioClient(&cfg.Minio)
	if err != nil {
		logger.Error("Error connecting to minio")
		logger.Panic(err)
	}
	logger.Info("Minio connected \n")

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.GetConnectionString())
	if err != nil {
		logger.Panic("Error connecting to RabbitMQ: ", err)
	}
	logger.Info("RabbitMQ connected \n")
	defer func() {
		if err := rabbitMQ.Close(); err != nil {
			logger.Errorf("Failed to close RabbitMQ connection: %v", err)
		}
	}()

	renderer, err := cecert.NewRenderer(cecert.NewDefaultConfig(cfg.CE.FontPath, cfg.CE.SystemFont))
	if err != nil {
		logger.Panicf("Failed to load certificate font: %v", err)
	}

	workflow := ceworkflow.New(ceworkflow.Options{
		Repository: repository.NewRepository(db, logger),
		Renderer:   renderer,
		Storage:    filestorage.NewMinioStorage(s3, cfg.Minio.BUCKET),
		Publisher:  rabbitMQ,
		Config:     cfg.CE,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers := util.DetermineWorkers(cfg.CE.RenderWorkers)
	if err := rabbitMQ.ConsumeCeRenderJob(ctx, workflow.RenderJobHandler(), workers, logger); err != nil {
		logger.Fatalf("Failed to consume render job: %v", err)
	}
	logger.Infof("Started consuming render job with %d workers", workers)

	reconciler, err := scheduler.NewReconciler(cfg.CE.ReconcileSpec, workflow, cfg.CE.RenderGracePeriod, logger)
	if err != nil {
		logger.Fatalf("Failed to create reconciler: %v", err)
	}
	reconciler.Start()

	<-ctx.Done()
	logger.Info("Shutting down render consumer")

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	reconciler.Stop(stopCtx)
}
