package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/handlers"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
)

func RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", handlers.Login)
	rg.POST("/logout", middleware.OptionalAuthMiddleware(), handlers.Logout)
	rg.GET("/session", middleware.AuthMiddleware(), handlers.GetSession)
}
