package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/BerniceZTT/leadline_end/models"
	"github.com/BerniceZTT/leadline_end/service"
	"github.com/BerniceZTT/leadline_end/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCallLogStore 内存呼叫记录存储
type fakeCallLogStore struct {
	logs      []models.CallLog
	insertErr error
}

func (f *fakeCallLogStore) ListByCustomer(ctx context.Context, customerID string) ([]models.CallLog, error) {
	var result []models.CallLog
	for _, log := range f.logs {
		if log.CustomerID == customerID {
			result = append(result, log)
		}
	}
	return result, nil
}

func (f *fakeCallLogStore) Insert(ctx context.Context, log *models.CallLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.logs = append(f.logs, *log)
	return nil
}

// fakeCustomerStore 内存客户存储
type fakeCustomerStore struct {
	customers map[string]*models.Customer
	updateErr error
}

func newFakeCustomerStore(customers ...*models.Customer) *fakeCustomerStore {
	store := &fakeCustomerStore{customers: make(map[string]*models.Customer)}
	for _, customer := range customers {
		store.customers[customer.ID] = customer
	}
	return store
}

func (f *fakeCustomerStore) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *customer
	return &copied, nil
}

func (f *fakeCustomerStore) UpdateStage(ctx context.Context, id string, stage models.CustomerStage, entry models.AuditLogEntry) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	customer, ok := f.customers[id]
	if !ok {
		return fmt.Errorf("客户不存在: %s", id)
	}
	customer.Stage = stage
	customer.AuditLog = append(customer.AuditLog, entry)
	return nil
}

func newCustomer(id string, stage models.CustomerStage) *models.Customer {
	return &models.Customer{
		ID:          id,
		CompanyName: "测试公司",
		Location:    "Shanghai",
		Industry:    models.IndustryManufacturing,
		Stage:       stage,
		AuditLog: []models.AuditLogEntry{
			{
				Action:    models.AuditActionCreate,
				UserID:    "u1",
				Timestamp: time.Now(),
				Details:   "Customer created",
			},
		},
		CreatedAt: time.Now(),
	}
}

func TestStageForCallStatus(t *testing.T) {
	cases := []struct {
		status models.CallStatus
		want   models.CustomerStage
	}{
		{models.CallStatusDemoScheduled, models.StageDemoScheduled},
		{models.CallStatusPostDemoFollowup, models.StageNegotiation},
		{models.CallStatusInfoSent, models.StageInProgress},
		{models.CallStatusFollowUpNeeded, models.StageInProgress},
		{models.CallStatusNotRightPerson, models.StageDeferred},
		{models.CallStatusFirmNo, models.StageClosedLost},
		{models.CallStatusLost, models.StageClosedLost},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, service.StageForCallStatus(tc.status), "status=%s", tc.status)
	}

	// 未知的呼叫结果回退为 In Progress
	assert.Equal(t, models.StageInProgress, service.StageForCallStatus("Something Else"))
	assert.Equal(t, models.StageInProgress, service.StageForCallStatus(""))

	// 纯函数，重复调用结果一致
	for _, tc := range cases {
		first := service.StageForCallStatus(tc.status)
		second := service.StageForCallStatus(tc.status)
		assert.Equal(t, first, second)
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok, "期望*utils.ApiError, 实际 %T", err)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.ErrorCode)
}

func TestSubmitCall_CustomerNotFound(t *testing.T) {
	svc := service.NewCallService(&fakeCallLogStore{}, newFakeCustomerStore())

	_, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "missing",
		AttemptNumber: 1,
		Status:        models.CallStatusInfoSent,
	}, "u1")

	require.Error(t, err)
	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestSubmitCall_InvalidStatus(t *testing.T) {
	customers := newFakeCustomerStore(newCustomer("c1", models.StageInProgress))
	svc := service.NewCallService(&fakeCallLogStore{}, customers)

	_, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 1,
		Status:        "Wrong Number",
	}, "u1")

	assertValidationError(t, err)
}

func TestSubmitCall_DuplicateAttemptNumber(t *testing.T) {
	callLogs := &fakeCallLogStore{}
	customers := newFakeCustomerStore(newCustomer("c1", models.StageInProgress))
	svc := service.NewCallService(callLogs, customers)
	ctx := context.Background()

	_, err := svc.SubmitCall(ctx, &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 1,
		Status:        models.CallStatusInfoSent,
	}, "u1")
	require.NoError(t, err)

	// 相同拨打次数的第二次提交必须失败
	_, err = svc.SubmitCall(ctx, &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 1,
		Status:        models.CallStatusFollowUpNeeded,
	}, "u1")
	assertValidationError(t, err)

	// 失败的提交不落库，客户阶段不变
	assert.Len(t, callLogs.logs, 1)
	assert.Equal(t, models.StageInProgress, customers.customers["c1"].Stage)
}

func TestSubmitCall_PostDemoRequiresDemo(t *testing.T) {
	// 没有任何演示历史的新客户
	callLogs := &fakeCallLogStore{}
	customers := newFakeCustomerStore(newCustomer("d1", models.StageInProgress))
	svc := service.NewCallService(callLogs, customers)

	_, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "d1",
		AttemptNumber: 1,
		Status:        models.CallStatusPostDemoFollowup,
	}, "u1")

	assertValidationError(t, err)
	assert.Empty(t, callLogs.logs)
}

func TestSubmitCall_PostDemoAllowedByStage(t *testing.T) {
	// 客户当前阶段已是 Demo Scheduled，即使没有呼叫历史也允许
	callLogs := &fakeCallLogStore{}
	customers := newFakeCustomerStore(newCustomer("c1", models.StageDemoScheduled))
	svc := service.NewCallService(callLogs, customers)

	result, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 1,
		Status:        models.CallStatusPostDemoFollowup,
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, models.StageNegotiation, result.NewStage)
	assert.True(t, result.StageUpdated)
}

func TestSubmitCall_PostDemoAllowedByHistory(t *testing.T) {
	// 历史呼叫中出现过 Demo Scheduled 即可，客户当前阶段无关
	callLogs := &fakeCallLogStore{logs: []models.CallLog{
		{ID: "cl1", CustomerID: "c1", UserID: "u1", AttemptNumber: 1, Status: models.CallStatusDemoScheduled},
	}}
	customers := newFakeCustomerStore(newCustomer("c1", models.StageInProgress))
	svc := service.NewCallService(callLogs, customers)

	result, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 2,
		Status:        models.CallStatusPostDemoFollowup,
	}, "u1")

	require.NoError(t, err)
	assert.Equal(t, models.StageNegotiation, result.NewStage)
}

func TestSubmitCall_EndToEndScenarios(t *testing.T) {
	callLogs := &fakeCallLogStore{}
	customers := newFakeCustomerStore(newCustomer("C", models.StageInProgress))
	svc := service.NewCallService(callLogs, customers)
	ctx := context.Background()

	// 场景1: 第一通电话安排了演示
	result, err := svc.SubmitCall(ctx, &models.CreateCallLogInput{
		CustomerID:    "C",
		AttemptNumber: 1,
		Status:        models.CallStatusDemoScheduled,
		IsDemo:        true,
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StageDemoScheduled, customers.customers["C"].Stage)
	assert.NotEmpty(t, result.CallLog.ID)
	assert.Equal(t, "u1", result.CallLog.UserID)
	assert.False(t, result.CallLog.Date.IsZero())

	// 场景2: 演示后跟进，阶段进入谈判
	_, err = svc.SubmitCall(ctx, &models.CreateCallLogInput{
		CustomerID:    "C",
		AttemptNumber: 2,
		Status:        models.CallStatusPostDemoFollowup,
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StageNegotiation, customers.customers["C"].Stage)

	// 场景3: 复用拨打次数2，提交被拒绝，阶段不变
	_, err = svc.SubmitCall(ctx, &models.CreateCallLogInput{
		CustomerID:    "C",
		AttemptNumber: 2,
		Status:        models.CallStatusInfoSent,
	}, "u1")
	assertValidationError(t, err)
	assert.Len(t, callLogs.logs, 2)
	assert.Equal(t, models.StageNegotiation, customers.customers["C"].Stage)

	// 场景4: 新客户直接提交演示后跟进被拒绝
	customers.customers["D"] = newCustomer("D", models.StageInProgress)
	_, err = svc.SubmitCall(ctx, &models.CreateCallLogInput{
		CustomerID:    "D",
		AttemptNumber: 1,
		Status:        models.CallStatusPostDemoFollowup,
	}, "u2")
	assertValidationError(t, err)
	assert.Len(t, callLogs.logs, 2)

	// 场景5: 明确拒绝，阶段进入 Closed Lost
	_, err = svc.SubmitCall(ctx, &models.CreateCallLogInput{
		CustomerID:    "C",
		AttemptNumber: 3,
		Status:        models.CallStatusFirmNo,
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StageClosedLost, customers.customers["C"].Stage)
}

func TestSubmitCall_AppendsAuditEntry(t *testing.T) {
	callLogs := &fakeCallLogStore{}
	customer := newCustomer("c1", models.StageInProgress)
	customers := newFakeCustomerStore(customer)
	svc := service.NewCallService(callLogs, customers)

	before := len(customer.AuditLog)
	_, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 1,
		Status:        models.CallStatusInfoSent,
	}, "u7")
	require.NoError(t, err)

	// 每次阶段更新追加且只追加一条审计日志
	require.Len(t, customer.AuditLog, before+1)
	entry := customer.AuditLog[len(customer.AuditLog)-1]
	assert.Equal(t, models.AuditActionUpdate, entry.Action)
	assert.Equal(t, "u7", entry.UserID)
	assert.Equal(t, "Customer updated", entry.Details)
}

func TestSubmitCall_StageUpdateFailureKeepsCallLog(t *testing.T) {
	callLogs := &fakeCallLogStore{}
	customers := newFakeCustomerStore(newCustomer("c1", models.StageInProgress))
	customers.updateErr = fmt.Errorf("connection refused")
	svc := service.NewCallService(callLogs, customers)

	result, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 1,
		Status:        models.CallStatusDemoScheduled,
	}, "u1")

	// 阶段更新失败不回滚呼叫记录
	require.NoError(t, err)
	assert.False(t, result.StageUpdated)
	assert.Len(t, callLogs.logs, 1)
	assert.Equal(t, models.StageDemoScheduled, result.NewStage)
}

func TestSubmitCall_InsertFailure(t *testing.T) {
	callLogs := &fakeCallLogStore{insertErr: fmt.Errorf("no reachable servers")}
	customers := newFakeCustomerStore(newCustomer("c1", models.StageInProgress))
	svc := service.NewCallService(callLogs, customers)

	_, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 1,
		Status:        models.CallStatusInfoSent,
	}, "u1")

	require.Error(t, err)
	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.StatusCode)
	// 写入失败后客户阶段不应被更新
	assert.Equal(t, models.StageInProgress, customers.customers["c1"].Stage)
}

func TestSubmitCall_InvalidAttemptNumber(t *testing.T) {
	customers := newFakeCustomerStore(newCustomer("c1", models.StageInProgress))
	svc := service.NewCallService(&fakeCallLogStore{}, customers)

	_, err := svc.SubmitCall(context.Background(), &models.CreateCallLogInput{
		CustomerID:    "c1",
		AttemptNumber: 0,
		Status:        models.CallStatusInfoSent,
	}, "u1")

	assertValidationError(t, err)
}
