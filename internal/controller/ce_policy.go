package controller

import (
	"errors"
	"net/http"

	"github.com/RotationHub/CECert/internal/ce"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/gin-gonic/gin"
)

type CePolicyController struct {
	*baseController
}

// GetPolicy answers the current policy of a university, policy is null when none was set.
func (pc CePolicyController) GetPolicy(ctx *gin.Context) {
	universityId := ctx.Params.ByName("universityId")
	if universityId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "University id is required", util.GenerateErrorMessages(errors.New(ErrUniversityIdRequired), "universityId"), nil)
		return
	}

	actor, err := pc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	policy, err := pc.app.Workflow.GetPolicy(ctx, actor, universityId)
	if err != nil {
		pc.responseCeError(ctx, "Failed to get CE policy", "universityId", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"policy": policy,
	})
}

func (pc CePolicyController) UpsertPolicy(ctx *gin.Context) {
	var body ce.PolicyInput

	universityId := ctx.Params.ByName("universityId")
	if universityId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "University id is required", util.GenerateErrorMessages(errors.New(ErrUniversityIdRequired), "universityId"), nil)
		return
	}

	actor, err := pc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, bindStatus(err), "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	policy, err := pc.app.Workflow.UpsertPolicy(ctx, actor, universityId, body)
	if err != nil {
		pc.responseCeError(ctx, "Failed to update CE policy", "policy", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"policy": policy,
	})
}
