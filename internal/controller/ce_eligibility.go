package controller

import (
	"errors"
	"net/http"

	"github.com/RotationHub/CECert/internal/util"
	"github.com/gin-gonic/gin"
)

type CeEligibilityController struct {
	*baseController
}

func (ec CeEligibilityController) GetEligibility(ctx *gin.Context) {
	applicationId := ctx.Params.ByName("applicationId")
	if applicationId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Application id is required", util.GenerateErrorMessages(errors.New(ErrApplicationIdRequired), "applicationId"), nil)
		return
	}

	actor, err := ec.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	eligibility, err := ec.app.Workflow.Eligibility(ctx, actor, applicationId)
	if err != nil {
		ec.responseCeError(ctx, "Failed to evaluate eligibility", "applicationId", err)
		return
	}

	util.ResponseSuccess(ctx, eligibility)
}
