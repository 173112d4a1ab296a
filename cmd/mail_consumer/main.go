package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/env"
	"github.com/RotationHub/CECert/internal/mailer"
	"github.com/RotationHub/CECert/internal/queue"
	"github.com/RotationHub/CECert/internal/util"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)

	mail := mailer.NewClient(cfg, logger)

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers := util.DetermineWorkers(cfg.CE.MailWorkers)
	if err := rabbitMQ.ConsumeMailJob(ctx, queue.SendCeCertificateMail(mail), workers, logger); err != nil {
		logger.Fatalf("Failed to consume mail job: %v", err)
	}

	logger.Infof("Started consuming mail job with %d workers", workers)

	<-ctx.Done()
	logger.Info("Shutting down mail consumer")
}
