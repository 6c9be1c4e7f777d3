package controllers

import (
	"net/http"
	"sync"

	"github.com/BerniceZTT/leadline_end/models"
	"github.com/BerniceZTT/leadline_end/repository"
	"github.com/BerniceZTT/leadline_end/service"
	"github.com/BerniceZTT/leadline_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	callServiceOnce sync.Once
	callService     *service.CallService
)

// getCallService 返回挂接MongoDB存储的呼叫提交工作流
func getCallService() *service.CallService {
	callServiceOnce.Do(func() {
		callService = service.NewCallService(
			&repository.MongoCallLogStore{},
			&repository.MongoCustomerStore{},
		)
	})
	return callService
}

// CreateCallLog 提交呼叫记录
// 校验通过后写入呼叫记录，并更新对应客户的阶段
func CreateCallLog(c *gin.Context) {
	var input models.CreateCallLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := getCallService().SubmitCall(c.Request.Context(), &input, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"callLogId":    result.CallLog.ID,
		"customerId":   input.CustomerID,
		"status":       input.Status,
		"newStage":     result.NewStage,
		"stageUpdated": result.StageUpdated,
	}, "呼叫记录提交成功")

	response := gin.H{
		"success":  true,
		"data":     result.CallLog,
		"newStage": result.NewStage,
	}
	// 呼叫记录已保存但客户阶段更新失败时，提示调用方刷新确认
	if !result.StageUpdated {
		response["warning"] = "呼叫记录已保存，但客户阶段更新失败，请刷新页面确认最新状态"
	}

	c.JSON(http.StatusCreated, response)
}

// GetCallLogs 获取全部呼叫记录
func GetCallLogs(c *gin.Context) {
	listCallLogs(c, bson.M{})
}

// GetCallLogsByCustomer 获取某客户的呼叫记录
func GetCallLogsByCustomer(c *gin.Context) {
	customerID := c.Param("customerId")
	if customerID == "" {
		utils.HandleError(c, utils.CreateBadRequestError("客户ID不能为空"))
		return
	}
	listCallLogs(c, bson.M{"customerId": customerID})
}

// GetCallLogsByUser 获取某用户提交的呼叫记录
func GetCallLogsByUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		utils.HandleError(c, utils.CreateBadRequestError("用户ID不能为空"))
		return
	}
	listCallLogs(c, bson.M{"userId": userID})
}

// listCallLogs 按条件查询呼叫记录，按时间倒序
func listCallLogs(c *gin.Context, filter bson.M) {
	ctx := repository.GetContext()
	collection := repository.Collection(repository.CallLogsCollection)

	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var logs []models.CallLog
	if err = cursor.All(ctx, &logs); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, logs, "")
}
