package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCallLogRouter 构造测试路由
// withUser为true时注入模拟的认证用户
func setupCallLogRouter(withUser bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if withUser {
		router.Use(func(c *gin.Context) {
			c.Set("user", map[string]interface{}{
				"id":    "u1",
				"email": "user@leadline.io",
				"name":  "测试用户",
				"role":  "user",
			})
			c.Next()
		})
	}

	router.POST("/api/callLogs", CreateCallLog)
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/api/callLogs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateCallLogInvalidJSON(t *testing.T) {
	router := setupCallLogRouter(true)

	w := postJSON(router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCallLogMissingRequiredFields(t *testing.T) {
	router := setupCallLogRouter(true)

	// 缺少customerId和status
	w := postJSON(router, `{"attemptNumber": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}

func TestCreateCallLogMalformedAttemptNumber(t *testing.T) {
	router := setupCallLogRouter(true)

	w := postJSON(router, `{"customerId": "c1", "attemptNumber": "abc", "status": "Info Sent"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCallLogUnauthenticated(t *testing.T) {
	router := setupCallLogRouter(false)

	w := postJSON(router, `{"customerId": "c1", "attemptNumber": 1, "status": "Info Sent"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
