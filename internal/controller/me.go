package controller

import (
	"net/http"

	"github.com/RotationHub/CECert/internal/util"
	"github.com/gin-gonic/gin"
)

type MeController struct {
	*baseController
}

func (mc MeController) GetMe(ctx *gin.Context) {
	user, err := mc.getAuthUser(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user":        user,
		"permissions": util.PermissionsOf(user.Role),
	})
}
