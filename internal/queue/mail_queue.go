package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RotationHub/CECert/internal/mailer"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type MailJobPayload struct {
	ToEmail      string                  `json:"to_email"`
	TemplateFile mailer.MailTemplateFile `json:"template_file"`
	Data         json.RawMessage         `json:"data"`
	CreatedAt    string                  `json:"created_at"`
	Try          int                     `json:"try" default:"0"`
}

func NewMailJobPayload[T any](toEmail string, templateFile mailer.MailTemplateFile, data T) (MailJobPayload, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return MailJobPayload{}, fmt.Errorf("failed to marshal data: %w", err)
	}

	return MailJobPayload{
		ToEmail:      toEmail,
		TemplateFile: templateFile,
		Data:         dataBytes,
		Try:          0,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func PublishCeCertificateMail(p Publisher, toEmail string, templateFile mailer.MailTemplateFile, data mailer.CeCertificateMailData) error {
	payload, err := NewMailJobPayload(toEmail, templateFile, data)
	if err != nil {
		return err
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	return p.Publish(QueueMail, payloadBytes)
}

type MailJobHandler func(ctx context.Context, jobPayload MailJobPayload) (bool, error)

// SendCeCertificateMail is the default mail handler, it decodes the data and sends it through client.
func SendCeCertificateMail(client mailer.Client) MailJobHandler {
	return func(ctx context.Context, jobPayload MailJobPayload) (bool, error) {
		var data mailer.CeCertificateMailData
		if err := json.Unmarshal(jobPayload.Data, &data); err != nil {
			// a broken payload never gets better
			return false, fmt.Errorf("invalid mail data: %w", err)
		}

		status, err := client.Send(jobPayload.TemplateFile, jobPayload.ToEmail, data)
		if err != nil {
			return true, err
		}
		if status >= 400 {
			return status >= 500, fmt.Errorf("mail provider answered with status %d", status)
		}

		return false, nil
	}
}

func (r *RabbitMQ) ConsumeMailJob(ctx context.Context, handler MailJobHandler, maxWorker int, logger *zap.SugaredLogger) error {
	msgs, err := r.Consume(QueueMail)
	if err != nil {
		return fmt.Errorf("failed to start consuming mail jobs: %w", err)
	}

	for i := range maxWorker {
		go func(workerNumber int) {
			runMailWorker(ctx, r, workerNumber, msgs, handler, logger)
		}(i + 1)
	}

	return nil
}

func runMailWorker(ctx context.Context, p Publisher, workerNumber int, msgs <-chan amqp091.Delivery, handler MailJobHandler, logger *zap.SugaredLogger) {
	for {
		select {
		case <-ctx.Done():
			logger.Infow("mail worker shutting down", "worker", workerNumber)
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Infow("mail message channel closed", "worker", workerNumber)
				return
			}
			processMailJob(ctx, p, workerNumber, msg, handler, logger)
		}
	}
}

func processMailJob(ctx context.Context, p Publisher, workerNumber int, msg amqp091.Delivery, handler MailJobHandler, logger *zap.SugaredLogger) {
	if msg.Body == nil {
		logger.Errorw("mail job has empty body", "worker", workerNumber)
		_ = drop(msg)
		return
	}

	var jobPayload MailJobPayload
	if err := json.Unmarshal(msg.Body, &jobPayload); err != nil {
		logger.Errorw("mail job has invalid payload", "worker", workerNumber, "error", err)
		_ = drop(msg)
		return
	}

	shouldRequeue, err := handler(ctx, jobPayload)
	if err != nil {
		logger.Errorw("mail job failed", "worker", workerNumber, "to", jobPayload.ToEmail, "template", jobPayload.TemplateFile, "try", jobPayload.Try, "error", err)

		if !shouldRequeue || jobPayload.Try >= MAX_QUEUE_RETRY {
			logger.Warnw("dropping mail job", "worker", workerNumber, "to", jobPayload.ToEmail, "template", jobPayload.TemplateFile, "try", jobPayload.Try, "should_requeue", shouldRequeue)
			_ = drop(msg)
			return
		}

		requeueMailJob(p, workerNumber, msg, jobPayload, logger)
		return
	}

	logger.Infow("mail job processed", "worker", workerNumber, "to", jobPayload.ToEmail, "template", jobPayload.TemplateFile)
	_ = ack(msg)
}

func requeueMailJob(p Publisher, workerNumber int, msg amqp091.Delivery, jobPayload MailJobPayload, logger *zap.SugaredLogger) {
	jobPayload.Try++
	payloadBytes, err := json.Marshal(jobPayload)
	if err != nil {
		logger.Errorw("failed to marshal mail payload for requeue", "worker", workerNumber, "error", err)
		_ = drop(msg)
		return
	}

	if err := p.Publish(QueueMail, payloadBytes); err != nil {
		logger.Errorw("failed to requeue mail job", "worker", workerNumber, "to", jobPayload.ToEmail, "error", err)
		_ = drop(msg)
		return
	}

	logger.Infow("mail job requeued", "worker", workerNumber, "to", jobPayload.ToEmail, "try", jobPayload.Try)
	_ = ack(msg)
}
