package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/handlers"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
)

func RegisterProductRoutes(rg *gin.RouterGroup, opts Options) {
	products := rg.Group("/products")

	// Public, admins see inactive products
	products.GET("", middleware.OptionalAuthMiddleware(), handlers.ListProducts)
	products.GET("/:slug", middleware.OptionalAuthMiddleware(), handlers.GetProduct)

	admin := products.Group("", append(adminChain(), opts.limit(middleware.WriteRateLimit()))...)
	admin.POST("", handlers.CreateProduct)
	admin.PUT("/:id", handlers.UpdateProduct)
	admin.PATCH("/:id", handlers.PatchProduct)
	admin.DELETE("/:id", handlers.DeleteProduct)
}
