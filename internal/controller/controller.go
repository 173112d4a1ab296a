package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	appcontext "github.com/RotationHub/CECert/internal/app_context"
	"github.com/RotationHub/CECert/internal/auth"
	"github.com/RotationHub/CECert/internal/ce"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index         *IndexController
	Me            *MeController
	CePolicy      *CePolicyController
	CeCertificate *CeCertificateController
	CeEligibility *CeEligibilityController
	CeVerify      *CeVerifyController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index:         &IndexController{baseController: bc},
		Me:            &MeController{baseController: bc},
		CePolicy:      &CePolicyController{baseController: bc},
		CeCertificate: &CeCertificateController{baseController: bc},
		CeEligibility: &CeEligibilityController{baseController: bc},
		CeVerify:      &CeVerifyController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, exists := ctx.Get("user")
	if !exists {
		return nil, errors.New("user not found in context")
	}

	if payload, ok := user.(auth.JWTPayload); ok {
		return &payload, nil
	}

	jsonUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	var authUser *auth.JWTPayload
	err = json.Unmarshal(jsonUser, &authUser)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return authUser, nil
}

// getActor turns the authenticated user into the actor the ce rules check against.
func (b *baseController) getActor(ctx *gin.Context) (ce.Actor, error) {
	user, err := b.getAuthUser(ctx)
	if err != nil {
		return ce.Actor{}, err
	}

	actor := ce.Actor{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
	if user.UniversityID != nil {
		actor.UniversityID = *user.UniversityID
	}

	return actor, nil
}
