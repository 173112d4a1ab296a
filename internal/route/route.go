package route

import (
	"github.com/RotationHub/CECert/internal/controller"
	"github.com/RotationHub/CECert/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Register mounts the health check and every /api/v1 group on r.
func Register(r *gin.Engine, c *controller.Controller, m *middleware.Middleware) {
	r.GET("/", c.Index.Index)

	rApi := r.Group("/api")

	V1_Me(rApi, c.Me, m)
	V1_CePolicies(rApi, c.CePolicy, m)
	V1_CeCertificates(rApi, c.CeCertificate, m)
	V1_CeEligibility(rApi, c.CeEligibility, m)
	V1_CeVerify(rApi, c.CeVerify)
}
