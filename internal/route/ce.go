package route

import (
	"github.com/RotationHub/CECert/internal/controller"
	"github.com/RotationHub/CECert/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_CePolicies(r *gin.RouterGroup, pc *controller.CePolicyController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/ce-policies")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("/:universityId", pc.GetPolicy)
		v1.PUT("/:universityId", pc.UpsertPolicy)
	}
}

func V1_CeCertificates(r *gin.RouterGroup, cc *controller.CeCertificateController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/ce-certificates")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", cc.GetCertificates)
		v1.POST("", cc.RequestCertificate)
		v1.GET("/:id", cc.GetCertificate)
		v1.POST("/:id/approve", cc.ApproveCertificate)
		v1.POST("/:id/reject", cc.RejectCertificate)
		v1.POST("/:id/revoke", cc.RevokeCertificate)
		v1.GET("/:id/download", cc.DownloadCertificate)
	}
}

func V1_CeEligibility(r *gin.RouterGroup, ec *controller.CeEligibilityController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/ce-eligibility")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("/:applicationId", ec.GetEligibility)
	}
}

// V1_CeVerify is public, no auth middleware.
func V1_CeVerify(r *gin.RouterGroup, vc *controller.CeVerifyController) {
	v1 := r.Group("/v1/ce/verify")
	{
		v1.GET("/:uuid", vc.Verify)
	}
}
