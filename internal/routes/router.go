package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/handlers"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
)

type Options struct {
	// RateLimit enables the per-IP limiters; tests turn it off.
	RateLimit bool
}

func (o Options) limit(h gin.HandlerFunc) gin.HandlerFunc {
	if o.RateLimit {
		return h
	}
	return func(c *gin.Context) { c.Next() }
}

// adminChain authenticates and requires ADMIN or SUPER_ADMIN.
func adminChain() []gin.HandlerFunc {
	return []gin.HandlerFunc{middleware.AuthMiddleware(), middleware.AdminOnly()}
}

// NewRouter builds the engine with every middleware and route.
func NewRouter(opts Options) *gin.Engine {
	middleware.SetupValidator()

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.LocaleMiddleware())
	r.Use(opts.limit(middleware.GeneralRateLimit()))

	r.GET("/health", handlers.HealthCheck)
	r.GET("/sitemap.xml", handlers.GenerateSitemap)
	r.GET("/robots.txt", handlers.GenerateRobotsTXT)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(opts.limit(middleware.AuthRateLimit()))
		RegisterAuthRoutes(auth)

		RegisterContentRoutes(api, opts)
		RegisterProductRoutes(api, opts)
		RegisterUserRoutes(api, opts)
		RegisterTechnologyRoutes(api, opts)
		RegisterPageRoutes(api, opts)
	}

	return r
}
