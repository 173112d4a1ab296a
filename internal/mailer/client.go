package mailer

import (
	"github.com/RotationHub/CECert/internal/config"
	"go.uber.org/zap"
)

// NewClient picks the provider configured in MAIL_PROVIDER, sendgrid unless it says gmail.
func NewClient(cfg config.Config, logger *zap.SugaredLogger) Client {
	if cfg.Mail.PROVIDER == "gmail" {
		return NewGmailMailer(cfg.Mail.GMAIL_USERNAME, cfg.Mail.GMAIL_APP_PASSWORD, logger)
	}

	return NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)
}
