package main

import (
	appcontext "github.com/RotationHub/CECert/internal/app_context"
	"github.com/RotationHub/CECert/internal/auth"
	ceworkflow "github.com/RotationHub/CECert/internal/ce_workflow"
	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/controller"
	"github.com/RotationHub/CECert/internal/database"
	"github.com/RotationHub/CECert/internal/env"
	filestorage "github.com/RotationHub/CECert/internal/file_storage"
	"github.com/RotationHub/CECert/internal/middleware"
	"github.com/RotationHub/CECert/internal/queue"
	ratelimiter "github.com/RotationHub/CECert/internal/rate_limiter"
	"github.com/RotationHub/CECert/internal/repository"
	"github.com/RotationHub/CECert/internal/route"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/RotationHub/CECert/pkg/cecert"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	logger.Debugf("Configuration: %+v \n", cfg)

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

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidators(v); err != nil {
			logger.Panicf("Failed to register custom validations: %v", err)
		}
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger)
	app := appcontext.Application{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		JWTService: jwtService,
		Workflow: ceworkflow.New(ceworkflow.Options{
			Repository: repo,
			Renderer:   renderer,
			Storage:    filestorage.NewMinioStorage(s3, cfg.Minio.BUCKET),
			Publisher:  rabbitMQ,
			Config:     cfg.CE,
			Logger:     logger,
		}),
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	route.Register(r, controller.NewController(&app), _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
