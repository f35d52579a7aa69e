package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/handlers"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
)

func RegisterTechnologyRoutes(rg *gin.RouterGroup, opts Options) {
	techs := rg.Group("/technologies")
	techs.GET("", handlers.ListTechnologies)
	techs.GET("/:id", handlers.GetTechnology)

	adminTechs := techs.Group("", append(adminChain(), opts.limit(middleware.WriteRateLimit()))...)
	adminTechs.POST("", handlers.CreateTechnology)
	adminTechs.PUT("/:id", handlers.UpdateTechnology)
	adminTechs.DELETE("/:id", handlers.DeleteTechnology)

	stack := rg.Group("/tech-stack")
	stack.GET("", handlers.GetTechStack)

	adminStack := stack.Group("", append(adminChain(), opts.limit(middleware.WriteRateLimit()))...)
	adminStack.POST("", handlers.CreateTechStackSection)
	adminStack.PUT("/:id", handlers.UpdateTechStackSection)
	adminStack.DELETE("/:id", handlers.DeleteTechStackSection)
}
