package appcontext

import (
	"github.com/RotationHub/CECert/internal/auth"
	ceworkflow "github.com/RotationHub/CECert/internal/ce_workflow"
	"github.com/RotationHub/CECert/internal/config"
	"github.com/RotationHub/CECert/internal/repository"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Repository provides access to data storage operations.
	Repository *repository.Repository

	// Workflow runs the CE certificate lifecycle, controllers go through it for every CE operation.
	Workflow *ceworkflow.Workflow

	// JWTService verifies access tokens issued by the marketplace.
	JWTService auth.JWTInterface
}
