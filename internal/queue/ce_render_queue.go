package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type CeRenderPayload struct {
	CertificateID string `json:"certificate_id"`
	Retry         int    `json:"retry" default:"0"`
	CreatedAt     string `json:"created_at"`
}

func NewCeRenderPayload(certificateId string) CeRenderPayload {
	return CeRenderPayload{
		CertificateID: certificateId,
		Retry:         0,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}

func PublishCeRenderJob(p Publisher, certificateId string) error {
	payloadBytes, err := json.Marshal(NewCeRenderPayload(certificateId))
	if err != nil {
		return fmt.Errorf("failed to marshal render payload: %w", err)
	}

	return p.Publish(QueueCeCertificateRender, payloadBytes)
}

// CeRenderJobHandler returns whether a failed job is worth retrying.
type CeRenderJobHandler func(ctx context.Context, jobPayload CeRenderPayload) (bool, error)

func (r *RabbitMQ) ConsumeCeRenderJob(ctx context.Context, handler CeRenderJobHandler, maxWorker int, logger *zap.SugaredLogger) error {
	msgs, err := r.Consume(QueueCeCertificateRender)
	if err != nil {
		return fmt.Errorf("failed to start consuming render jobs: %w", err)
	}

	for i := range maxWorker {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					logger.Infow("render worker shutting down", "worker", workerID)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Infow("render message channel closed", "worker", workerID)
						return
					}
					processCeRenderJob(ctx, r, workerID, msg, handler, logger)
				}
			}
		}(i + 1)
	}

	return nil
}

func processCeRenderJob(ctx context.Context, p Publisher, workerID int, msg amqp091.Delivery, handler CeRenderJobHandler, logger *zap.SugaredLogger) {
	if msg.Body == nil {
		logger.Errorw("render job has empty body", "worker", workerID)
		_ = drop(msg)
		return
	}

	var jobPayload CeRenderPayload
	if err := json.Unmarshal(msg.Body, &jobPayload); err != nil || jobPayload.CertificateID == "" {
		logger.Errorw("render job has invalid payload", "worker", workerID, "error", err)
		_ = drop(msg)
		return
	}

	shouldRequeue, err := handler(ctx, jobPayload)
	if err == nil {
		logger.Infow("render job processed", "worker", workerID, "certificate_id", jobPayload.CertificateID, "retry", jobPayload.Retry)
		_ = ack(msg)
		return
	}

	logger.Errorw("render job failed", "worker", workerID, "certificate_id", jobPayload.CertificateID, "retry", jobPayload.Retry, "error", err)

	if !shouldRequeue || jobPayload.Retry >= MAX_QUEUE_RETRY {
		// the certificate stays approved, the reconciler publishes it again later
		logger.Warnw("dropping render job", "worker", workerID, "certificate_id", jobPayload.CertificateID, "retry", jobPayload.Retry, "should_requeue", shouldRequeue)
		_ = drop(msg)
		return
	}

	jobPayload.Retry++
	payloadBytes, err := json.Marshal(jobPayload)
	if err != nil {
		logger.Errorw("failed to marshal render payload for requeue", "worker", workerID, "error", err)
		_ = drop(msg)
		return
	}

	// requeue with updated retry count
	if err := p.Publish(QueueCeCertificateRender, payloadBytes); err != nil {
		logger.Errorw("failed to requeue render job", "worker", workerID, "certificate_id", jobPayload.CertificateID, "error", err)
		_ = drop(msg)
		return
	}

	logger.Infow("render job requeued", "worker", workerID, "certificate_id", jobPayload.CertificateID, "retry", jobPayload.Retry)
	_ = ack(msg)
}
