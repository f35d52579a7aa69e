package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/config"
)

func CORSMiddleware() gin.HandlerFunc {
	origins := []string{config.AppConfig.FrontendURL}
	if config.AppConfig.FrontendURL != "http://localhost:3000" {
		origins = append(origins, "http://localhost:3000")
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Language", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
