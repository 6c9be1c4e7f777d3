package service

import (
	"context"
	"fmt"
	"time"

	"github.com/BerniceZTT/leadline_end/models"
	"github.com/BerniceZTT/leadline_end/utils"

	"github.com/google/uuid"
)

// CallLogStore 呼叫记录存储
type CallLogStore interface {
	// ListByCustomer 返回某客户的全部呼叫记录，按时间倒序
	ListByCustomer(ctx context.Context, customerID string) ([]models.CallLog, error)
	// Insert 写入新呼叫记录
	Insert(ctx context.Context, log *models.CallLog) error
}

// CustomerStore 客户存储
type CustomerStore interface {
	// FindByID 按字符串ID查找客户，未找到时返回 (nil, nil)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	// UpdateStage 更新客户阶段并追加一条审计日志
	UpdateStage(ctx context.Context, id string, stage models.CustomerStage, entry models.AuditLogEntry) error
}

// stageByStatus 呼叫结果到客户阶段的映射表
var stageByStatus = map[models.CallStatus]models.CustomerStage{
	models.CallStatusDemoScheduled:    models.StageDemoScheduled,
	models.CallStatusPostDemoFollowup: models.StageNegotiation,
	models.CallStatusInfoSent:         models.StageInProgress,
	models.CallStatusFollowUpNeeded:   models.StageInProgress,
	models.CallStatusNotRightPerson:   models.StageDeferred,
	models.CallStatusFirmNo:           models.StageClosedLost,
	models.CallStatusLost:             models.StageClosedLost,
}

// StageForCallStatus 根据呼叫结果计算客户的新阶段
// 对任何输入都返回确定的结果，未知结果回退为 "In Progress"，
// 该回退是刻意的设计而非疏漏
func StageForCallStatus(status models.CallStatus) models.CustomerStage {
	if stage, ok := stageByStatus[status]; ok {
		return stage
	}
	return models.StageInProgress
}

// CallService 呼叫提交工作流
type CallService struct {
	callLogs  CallLogStore
	customers CustomerStore
}

// NewCallService 创建呼叫提交工作流
func NewCallService(callLogs CallLogStore, customers CustomerStore) *CallService {
	return &CallService{
		callLogs:  callLogs,
		customers: customers,
	}
}

// SubmitCallResult 呼叫提交结果
type SubmitCallResult struct {
	CallLog *models.CallLog
	// NewStage 根据呼叫结果计算出的客户新阶段
	NewStage models.CustomerStage
	// StageUpdated 客户阶段是否已成功写入
	// 呼叫记录与客户阶段是两次独立写入，后者失败不回滚前者
	StageUpdated bool
}

// SubmitCall 提交一条呼叫记录
// 校验通过后先写入呼叫记录，再根据映射表更新客户阶段并追加审计日志
func (s *CallService) SubmitCall(ctx context.Context, input *models.CreateCallLogInput, actingUserID string) (*SubmitCallResult, error) {
	if actingUserID == "" {
		return nil, utils.CreateUnauthorizedError()
	}
	if input.AttemptNumber < 1 {
		return nil, utils.CreateValidationError("拨打次数必须是正整数")
	}
	if !input.Status.IsValid() {
		return nil, utils.CreateValidationError(fmt.Sprintf("无效的呼叫结果: %s", input.Status))
	}

	// 客户必须存在
	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, utils.CreatePersistenceError("查询客户失败: " + err.Error())
	}
	if customer == nil {
		return nil, utils.CreateNotFoundError("客户")
	}

	// 取出该客户已有的呼叫记录
	existing, err := s.callLogs.ListByCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, utils.CreatePersistenceError("查询呼叫记录失败: " + err.Error())
	}

	// 守卫1: 同一客户的拨打次数不允许重复
	for _, cl := range existing {
		if cl.AttemptNumber == input.AttemptNumber {
			return nil, utils.CreateValidationError(
				fmt.Sprintf("该客户的拨打次数 #%d 已存在", input.AttemptNumber))
		}
	}

	// 守卫2: 记录演示后跟进的前提是已安排过演示
	// 客户当前阶段为 Demo Scheduled，或历史呼叫中出现过 Demo Scheduled，二者有其一即可
	if input.Status == models.CallStatusPostDemoFollowup {
		hasDemoScheduled := customer.Stage == models.StageDemoScheduled
		if !hasDemoScheduled {
			for _, cl := range existing {
				if cl.Status == models.CallStatusDemoScheduled {
					hasDemoScheduled = true
					break
				}
			}
		}
		if !hasDemoScheduled {
			return nil, utils.CreateValidationError("该客户尚未安排演示，无法记录演示后跟进")
		}
	}

	// 写入呼叫记录
	now := time.Now()
	callLog := &models.CallLog{
		ID:            uuid.NewString(),
		CustomerID:    input.CustomerID,
		UserID:        actingUserID,
		Date:          now,
		AttemptNumber: input.AttemptNumber,
		Status:        input.Status,
		Comments:      input.Comments,
		IsDemo:        input.IsDemo,
	}
	if err := s.callLogs.Insert(ctx, callLog); err != nil {
		return nil, utils.CreatePersistenceError("保存呼叫记录失败: " + err.Error())
	}

	// 计算并更新客户阶段，同时追加审计日志
	newStage := StageForCallStatus(input.Status)
	entry := models.AuditLogEntry{
		Action:    models.AuditActionUpdate,
		UserID:    actingUserID,
		Timestamp: now,
		Details:   "Customer updated",
	}

	result := &SubmitCallResult{
		CallLog:      callLog,
		NewStage:     newStage,
		StageUpdated: true,
	}

	// 两次写入之间没有跨集合事务，阶段更新失败时呼叫记录保留，
	// 只记录错误并在响应中提示调用方
	if err := s.customers.UpdateStage(ctx, input.CustomerID, newStage, entry); err != nil {
		utils.LogError(err, map[string]interface{}{
			"customerId": input.CustomerID,
			"callLogId":  callLog.ID,
			"newStage":   newStage,
		}, "更新客户阶段失败，呼叫记录已保留")
		result.StageUpdated = false
	}

	return result, nil
}
