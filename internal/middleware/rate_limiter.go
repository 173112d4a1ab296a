package middleware

import (
	"math"

	"github.com/RotationHub/CECert/internal/util"
	"github.com/gin-gonic/gin"
)

// RateLimiterMiddleware limits requests per client ip.
func (m Middleware) RateLimiterMiddleware(ctx *gin.Context) {
	if m.rateLimiter == nil || !m.rateLimiter.Enabled() {
		ctx.Next()
		return
	}

	ok, retryAfter := m.rateLimiter.Allow(ctx.ClientIP())
	if !ok {
		m.app.Logger.Debugf("Rate limited %s on %s", ctx.ClientIP(), ctx.FullPath())
		util.ResponseTooManyRequests(ctx, int(math.Ceil(retryAfter.Seconds())))
		return
	}

	ctx.Next()
}
