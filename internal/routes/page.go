package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/handlers"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
)

func RegisterPageRoutes(rg *gin.RouterGroup, opts Options) {
	rg.GET("/widgets", append(adminChain(), handlers.ListWidgets)...)

	pages := rg.Group("/pages")
	pages.GET("/:slug", handlers.RenderPage)
	pages.GET("", append(adminChain(), handlers.ListPageLayouts)...)
	pages.PUT("/:slug", append(adminChain(), opts.limit(middleware.WriteRateLimit()), handlers.UpsertPageLayout)...)
}
