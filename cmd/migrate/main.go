package main

import (
	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/database"
	"github.com/RotationHub/CECert/internal/env"
	"go.uber.org/zap"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()
	cfg := config.GetConfig()

	logger.Infof("Database: %s@%s:%s/%s", cfg.DB.DB_USERNAME, cfg.DB.DB_HOST, cfg.DB.DB_PORT, cfg.DB.DB_DATABASE)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS citext`).Error; err != nil {
		logger.Panic(err)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Panic(err)
	}

	logger.Info("Migration completed")
}
