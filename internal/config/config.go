package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/RotationHub/CECert/internal/env"
)

type Config struct {
	Port        string
	ENV         string
	DB          DatabaseConfig
	RateLimiter RateLimiterConfig
	Mail        MailConfig
	Auth        AuthConfig
	Minio       MinioConfig
	RabbitMQ    RabbitMQConfig
	CE          CEConfig
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type AuthConfig struct {
	JWT_SECRET string
}

type DatabaseConfig struct {
	DB_HOST      string
	DB_PORT      string
	DB_DATABASE  string
	DB_USERNAME  string
	DB_PASSWORD  string
	DB_SSLMODE   string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

type MailConfig struct {
	// "sendgrid" or "gmail"
	PROVIDER           string
	SEND_GRID          SendGridConfig
	FROM_EMAIL         string
	GMAIL_USERNAME     string
	GMAIL_APP_PASSWORD string
}

type SendGridConfig struct {
	API_KEY string
}

type MinioConfig struct {
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	BUCKET     string
	USE_SSL    bool
}

type RabbitMQConfig struct {
	HOST     string
	PORT     string
	USERNAME string
	PASSWORD string
	VHOST    string
}

func (r RabbitMQConfig) GetConnectionString() string {
	vhost := strings.TrimPrefix(r.VHOST, "/")
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", r.USERNAME, r.PASSWORD, r.HOST, r.PORT, vhost)
}

// CEConfig holds the settings of the continuing education certificate workflow.
type CEConfig struct {
	// Public base url of the verification page, the verification uuid is appended to it.
	VerifyBaseURL string
	// Path to a .ttf/.otf file used to render certificates. Empty means system font lookup.
	FontPath string
	// Font family looked up on the system when FontPath is empty.
	SystemFont string
	// How long a certificate may stay approved before the reconciler requeues its render.
	RenderGracePeriod time.Duration
	// Cron spec of the reconciler.
	ReconcileSpec string
	RenderWorkers int
	MailWorkers   int
}

func (c CEConfig) VerifyURL(verificationUUID string) string {
	return strings.TrimRight(c.VerifyBaseURL, "/") + "/" + verificationUUID
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

func GetConfig() Config {
	return Config{
		Port: env.GetString("PORT", "8080"),
		ENV:  env.GetString("ENV", "development"),
		DB: DatabaseConfig{
			DB_HOST:      env.GetString("DB_HOST", "127.0.0.1"),
			DB_PORT:      env.GetString("DB_PORT", "5432"),
			DB_USERNAME:  env.GetString("DB_USERNAME", "root"),
			DB_PASSWORD:  env.GetString("DB_PASSWORD", ""),
			DB_DATABASE:  env.GetString("DB_DATABASE", "cecert"),
			DB_SSLMODE:   env.GetString("DB_SSLMODE", "disable"),
			MaxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            env.GetDuration("RATE_LIMIT_TIME_FRAME", time.Minute),
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		Mail: MailConfig{
			PROVIDER:   env.GetString("MAIL_PROVIDER", "sendgrid"),
			FROM_EMAIL: env.GetString("MAIL_FROM_MAIL", ""),
			SEND_GRID: SendGridConfig{
				API_KEY: env.GetString("MAIL_SEND_GRID_API_KEY", ""),
			},
			GMAIL_USERNAME:     env.GetString("MAIL_GMAIL_USERNAME", ""),
			GMAIL_APP_PASSWORD: env.GetString("MAIL_GMAIL_APP_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWT_SECRET: env.GetString("AUTH_JWT_SECRET", ""),
		},
		Minio: MinioConfig{
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", "127.0.0.1:9000"),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			BUCKET:     env.GetString("MINIO_BUCKET", "cecert"),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
		},
		RabbitMQ: RabbitMQConfig{
			HOST:     env.GetString("RABBITMQ_HOST", "127.0.0.1"),
			PORT:     env.GetString("RABBITMQ_PORT", "5672"),
			USERNAME: env.GetString("RABBITMQ_USERNAME", "guest"),
			PASSWORD: env.GetString("RABBITMQ_PASSWORD", "guest"),
			VHOST:    env.GetString("RABBITMQ_VHOST", "/"),
		},
		CE: CEConfig{
			VerifyBaseURL:     env.GetString("CE_VERIFY_BASE_URL", "http://localhost:3000/ce/verify"),
			FontPath:          env.GetString("CE_FONT_PATH", ""),
			SystemFont:        env.GetString("CE_SYSTEM_FONT", "DejaVu Sans"),
			RenderGracePeriod: env.GetDuration("CE_RENDER_GRACE_PERIOD", 10*time.Minute),
			ReconcileSpec:     env.GetString("CE_RECONCILE_SPEC", "*/15 * * * *"),
			RenderWorkers:     env.GetInt("CE_RENDER_WORKERS", 3),
			MailWorkers:       env.GetInt("CE_MAIL_WORKERS", 3),
		},
	}
}
