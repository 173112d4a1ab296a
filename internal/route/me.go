package route

import (
	"github.com/RotationHub/CECert/internal/controller"
	"github.com/RotationHub/CECert/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Me(r *gin.RouterGroup, mc *controller.MeController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/me")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", mc.GetMe)
	}
}
