package routes

import (
	"github.com/BerniceZTT/leadline_end/controllers"
	"github.com/BerniceZTT/leadline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户管理路由
func RegisterUserRoutes(router *gin.Engine) {
	userRoutes := router.Group("/api/users")
	userRoutes.Use(middleware.AuthMiddleware())

	userRoutes.GET("/me", controllers.GetCurrentUser)
	userRoutes.GET("/", middleware.AdminOnly(), controllers.GetUsers)
	userRoutes.POST("/", middleware.AdminOnly(), controllers.CreateUser)
}
