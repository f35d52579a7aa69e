package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/handlers"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
)

func RegisterUserRoutes(rg *gin.RouterGroup, opts Options) {
	users := rg.Group("/users", adminChain()...)
	users.GET("", handlers.ListUsers)
	users.GET("/:id", handlers.GetUser)

	writes := users.Group("", opts.limit(middleware.WriteRateLimit()))
	writes.POST("", handlers.CreateUser)
	writes.PATCH("/:id", handlers.UpdateUser)
	writes.DELETE("/:id", handlers.DeleteUser)
}
