package routes

import (
	"vnwidget/internal/controllers"
	"vnwidget/internal/middleware"
	"vnwidget/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterVnstatRoutes registers the health check and every token-protected vnstat view
func RegisterVnstatRoutes(r *gin.Engine, vc *controllers.VnstatController, vnstat *services.VnstatService, tokenAuth gin.HandlerFunc) {
	r.GET("/health", controllers.GetHealth)

	views := r.Group("/", tokenAuth)
	{
		views.GET("/json", vc.GetJSON)
		views.GET("/metrics", vc.GetMetrics)
		views.GET("/snapshot", vc.GetSnapshots)
		views.GET("/interfaces", vc.GetHostInterfaces)

		views.GET("/", vc.TextView(vnstat.GetMonthly))
		views.GET("/summary", vc.TextView(vnstat.GetSummary))
		views.GET("/daily", vc.TextView(vnstat.GetDaily))
		views.GET("/hourly", vc.TextView(vnstat.GetHourly))
		views.GET("/weekly", vc.TextView(vnstat.GetWeekly))
		views.GET("/yearly", vc.TextView(vnstat.GetYearly))
		views.GET("/top", vc.TextView(vnstat.GetTop))
		views.GET("/oneline", vc.TextView(vnstat.GetOneline))
	}
}

// NewRouter builds the gin engine with the shared middleware chain
func NewRouter(rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.HandleMethodNotAllowed = true
	r.NoMethod(middleware.MethodNotAllowed)

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	if rateLimiter != nil {
		r.Use(middleware.RateLimitMiddleware(rateLimiter))
	}
	return r
}
