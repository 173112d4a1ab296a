package controller

import (
	"errors"
	"net/http"

	"github.com/RotationHub/CECert/internal/ce"
	ceworkflow "github.com/RotationHub/CECert/internal/ce_workflow"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/gin-gonic/gin"
)

type CeVerifyController struct {
	*baseController
}

// Verify is public. Unknown, malformed and not yet issued certificates all answer 404 with valid false.
func (vc CeVerifyController) Verify(ctx *gin.Context) {
	verificationUuid := ctx.Params.ByName("uuid")

	result, err := vc.app.Workflow.Verify(ctx, verificationUuid)
	if err != nil {
		if errors.Is(err, ce.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Certificate not found", util.GenerateErrorMessages(ce.ErrNotFound, "uuid"), ceworkflow.VerifyResult{})
			return
		}

		vc.app.Logger.Errorf("Failed to verify certificate %s: %v", verificationUuid, err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to verify certificate", util.GenerateErrorMessages(errors.New("internal error"), "uuid"), ceworkflow.VerifyResult{})
		return
	}

	util.ResponseSuccess(ctx, result)
}
