package http

import (
	"github.com/moldovancsaba/narimato-sub003/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the engine's external operations onto gin routes.
// Authentication and full request validation beyond identifier shape
// are left to a fronting gateway.
func NewRouter(h *Handler, allowOrigins []string) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.ZapLogger())
	r.Use(middleware.ZapRecovery())

	corsConfig := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	corsConfig.AllowOrigins = allowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.healthz)

	recomputeLimiter := middleware.NewTenantRateLimiter(1)

	api := r.Group("/api/v1")
	{
		api.POST("/plays", h.startPlay)
		api.GET("/plays/:playId", h.getPlay)
		api.POST("/plays/:playId/swipes", h.swipe)
		api.POST("/plays/:playId/votes", h.vote)

		api.POST("/tenants/:tenantId/recompute-global", recomputeLimiter.Limit("tenantId"), h.recomputeGlobal)
		api.GET("/tenants/:tenantId/leaderboard", h.leaderboard)
		api.POST("/expire-plays", h.expirePlays)
	}

	return r
}
