package routes

import (
	"github.com/BerniceZTT/leadline_end/controllers"
	"github.com/BerniceZTT/leadline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterDashboardStatsRoutes 注册数据看板路由
func RegisterDashboardStatsRoutes(router *gin.Engine) {
	dashboardRoutes := router.Group("/api/dashboard-stats")
	dashboardRoutes.Use(middleware.AuthMiddleware())

	dashboardRoutes.GET("/", controllers.GetDashboardStats)
}
