package middleware

import (
	"github.com/BerniceZTT/leadline_end/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 全局错误处理中间件
// 处理器通过 c.Error 挂到上下文但未自行响应的错误，在这里统一转成响应
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// 处理器已经写过错误响应时不重复处理
		if c.Writer.Written() && c.Writer.Status() >= 400 {
			return
		}

		// 多个错误时逐条记录，响应取最后一个
		for _, ginErr := range c.Errors[:len(c.Errors)-1] {
			utils.LogError(ginErr.Err, map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}, "请求处理错误")
		}
		utils.HandleError(c, c.Errors.Last().Err)
	}
}
