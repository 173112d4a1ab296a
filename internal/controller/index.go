package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/RotationHub/CECert/internal/util"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

// Index is the health check, it pings the database.
func (ic IndexController) Index(ctx *gin.Context) {
	sqlDB, err := ic.app.Repository.DB.DB()
	if err != nil {
		util.ResponseFailed(ctx, http.StatusServiceUnavailable, "Database unavailable", util.GenerateErrorMessages(err, "database"), nil)
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		util.ResponseFailed(ctx, http.StatusServiceUnavailable, "Database unavailable", util.GenerateErrorMessages(err, "database"), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"name":   util.GetAppName(),
		"status": "ok",
	})
}
