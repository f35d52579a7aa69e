package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/handlers"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
)

func RegisterContentRoutes(rg *gin.RouterGroup, opts Options) {
	rg.GET("/public/content", handlers.GetPublicContent)

	content := rg.Group("/content", adminChain()...)
	{
		content.GET("", handlers.ListContent)
		content.GET("/:id", handlers.GetContent)
		content.GET("/:id/history", handlers.GetContentHistory)

		writes := content.Group("", opts.limit(middleware.WriteRateLimit()))
		writes.POST("", handlers.CreateContent)
		writes.PUT("", handlers.TransitionContent)
		writes.PATCH("/:id", handlers.UpdateContent)
		writes.DELETE("/:id", handlers.DeleteContent)
	}
}
