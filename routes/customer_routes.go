package routes

import (
	"github.com/BerniceZTT/leadline_end/controllers"
	"github.com/BerniceZTT/leadline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes 注册客户相关路由
func RegisterCustomerRoutes(router *gin.Engine) {
	customerRoutes := router.Group("/api/customers")
	customerRoutes.Use(middleware.AuthMiddleware())

	customerRoutes.GET("/", controllers.GetCustomers)
	customerRoutes.GET("/check-duplicate", controllers.CheckDuplicateCustomer)
	customerRoutes.POST("/", controllers.CreateCustomer)
	customerRoutes.GET("/:id", controllers.GetCustomer)
	customerRoutes.PUT("/:id", controllers.UpdateCustomer)
	customerRoutes.POST("/:id/comments", controllers.AddCustomerComment)
}
