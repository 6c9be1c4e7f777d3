package routes

import (
	"github.com/BerniceZTT/leadline_end/controllers"
	"github.com/BerniceZTT/leadline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCallLogRoutes 注册呼叫记录相关路由
func RegisterCallLogRoutes(router *gin.Engine) {
	callLogRoutes := router.Group("/api/callLogs")
	callLogRoutes.Use(middleware.AuthMiddleware())

	callLogRoutes.GET("/", controllers.GetCallLogs)
	callLogRoutes.GET("/customer/:customerId", controllers.GetCallLogsByCustomer)
	callLogRoutes.GET("/user/:userId", controllers.GetCallLogsByUser)
	callLogRoutes.POST("/", controllers.CreateCallLog)
}
