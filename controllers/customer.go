package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/leadline_end/models"
	"github.com/BerniceZTT/leadline_end/repository"
	"github.com/BerniceZTT/leadline_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var customerStore = &repository.MongoCustomerStore{}

// GetCustomers 获取客户列表
// 支持按阶段、行业过滤和关键字搜索
func GetCustomers(c *gin.Context) {
	ctx := repository.GetContext()

	filter := bson.M{}
	if stage := c.Query("stage"); stage != "" {
		filter["stage"] = stage
	}
	if industry := c.Query("industry"); industry != "" {
		filter["industry"] = industry
	}
	if search := c.Query("search"); search != "" {
		pattern := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = []bson.M{
			{"companyName": pattern},
			{"location": pattern},
		}
	}

	collection := repository.Collection(repository.CustomersCollection)
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err = cursor.All(ctx, &customers); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, customers, "")
}

// GetCustomer 获取客户详情
// 阶段和审计日志原样返回，供前端展示
func GetCustomer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.HandleError(c, utils.CreateBadRequestError("客户ID不能为空"))
		return
	}

	customer, err := customerStore.FindByID(repository.GetContext(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if customer == nil {
		utils.HandleError(c, utils.CreateNotFoundError("客户"))
		return
	}

	utils.SuccessResponse(c, customer, "")
}

// CreateCustomer 创建客户
// 服务端追加 "create" 审计日志，不接受客户端提交的auditLog
func CreateCustomer(c *gin.Context) {
	var req models.CustomerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if !req.Industry.IsValid() {
		utils.HandleError(c, utils.CreateValidationError(fmt.Sprintf("无效的行业: %s", req.Industry)))
		return
	}

	stage := req.Stage
	if stage == "" {
		stage = models.StageInProgress
	}
	if !stage.IsValid() {
		utils.HandleError(c, utils.CreateValidationError(fmt.Sprintf("无效的客户阶段: %s", stage)))
		return
	}

	now := time.Now()
	customer := models.Customer{
		ID:                uuid.NewString(),
		CompanyName:       req.CompanyName,
		Location:          req.Location,
		Industry:          req.Industry,
		Website:           req.Website,
		CustomerPotential: req.CustomerPotential,
		Stage:             stage,
		AdditionalNotes:   req.AdditionalNotes,
		ContactPerson1:    req.ContactPerson1,
		ContactPerson2:    req.ContactPerson2,
		ContactPerson3:    req.ContactPerson3,
		AuditLog: []models.AuditLogEntry{
			{
				Action:    models.AuditActionCreate,
				UserID:    user.ID,
				Timestamp: now,
				Details:   "Customer created",
			},
		},
		Comments:  []models.CustomerComment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	collection := repository.Collection(repository.CustomersCollection)
	result, err := collection.InsertOne(repository.GetContext(), customer)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		customer.OID = oid
	}

	utils.LogInfo(map[string]interface{}{
		"customerId":  customer.ID,
		"companyName": customer.CompanyName,
	}, "创建客户成功")

	utils.SuccessResponse(c, customer, "创建客户成功", http.StatusCreated)
}

// UpdateCustomer 更新客户
// 零值字段不参与更新；服务端追加 "update" 审计日志
func UpdateCustomer(c *gin.Context) {
	id := c.Param("id")

	var req models.CustomerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	now := time.Now()
	updateFields := bson.M{"updatedAt": now}

	if req.CompanyName != "" {
		updateFields["companyName"] = req.CompanyName
	}
	if req.Location != "" {
		updateFields["location"] = req.Location
	}
	if req.Industry != "" {
		if !req.Industry.IsValid() {
			utils.HandleError(c, utils.CreateValidationError(fmt.Sprintf("无效的行业: %s", req.Industry)))
			return
		}
		updateFields["industry"] = req.Industry
	}
	if req.Stage != "" {
		if !req.Stage.IsValid() {
			utils.HandleError(c, utils.CreateValidationError(fmt.Sprintf("无效的客户阶段: %s", req.Stage)))
			return
		}
		updateFields["stage"] = req.Stage
	}
	if req.Website != nil {
		updateFields["website"] = *req.Website
	}
	if req.CustomerPotential != nil {
		updateFields["customerPotential"] = *req.CustomerPotential
	}
	if req.AdditionalNotes != nil {
		updateFields["additionalNotes"] = *req.AdditionalNotes
	}
	if req.ContactPerson1 != nil {
		updateFields["contactPerson1"] = *req.ContactPerson1
	}
	if req.ContactPerson2 != nil {
		updateFields["contactPerson2"] = *req.ContactPerson2
	}
	if req.ContactPerson3 != nil {
		updateFields["contactPerson3"] = *req.ContactPerson3
	}

	auditEntry := models.AuditLogEntry{
		Action:    models.AuditActionUpdate,
		UserID:    user.ID,
		Timestamp: now,
		Details:   "Customer updated",
	}

	collection := repository.Collection(repository.CustomersCollection)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Customer
	err = collection.FindOneAndUpdate(
		repository.GetContext(),
		repository.CustomerFilter(id),
		bson.M{
			"$set":  updateFields,
			"$push": bson.M{"auditLog": auditEntry},
		},
		opts,
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("客户"))
			return
		}
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"customerId": id,
		"userId":     user.ID,
	}, "更新客户成功")

	utils.SuccessResponse(c, updated, "更新客户成功")
}

// AddCustomerComment 为客户追加备注
func AddCustomerComment(c *gin.Context) {
	id := c.Param("id")

	var req models.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	now := time.Now()
	comment := models.CustomerComment{
		UserID:    user.ID,
		Timestamp: now,
		Text:      req.Text,
	}
	auditEntry := models.AuditLogEntry{
		Action:    models.AuditActionUpdate,
		UserID:    user.ID,
		Timestamp: now,
		Details:   "Comment added",
	}

	collection := repository.Collection(repository.CustomersCollection)
	result, err := collection.UpdateOne(
		repository.GetContext(),
		repository.CustomerFilter(id),
		bson.M{
			"$set":  bson.M{"updatedAt": now},
			"$push": bson.M{"comments": comment, "auditLog": auditEntry},
		},
	)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if result.MatchedCount == 0 {
		utils.HandleError(c, utils.CreateNotFoundError("客户"))
		return
	}

	utils.SuccessResponse(c, comment, "添加备注成功", http.StatusCreated)
}

// CheckDuplicateCustomer 客户查重
// 按公司名和联系人邮箱判断是否已有相同客户
func CheckDuplicateCustomer(c *gin.Context) {
	companyName := strings.TrimSpace(c.Query("companyName"))
	email := strings.TrimSpace(c.Query("email"))
	excludeID := c.Query("excludeId")

	if companyName == "" && email == "" {
		utils.HandleError(c, utils.CreateBadRequestError("companyName和email至少提供一个"))
		return
	}

	ctx := repository.GetContext()
	collection := repository.Collection(repository.CustomersCollection)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err = cursor.All(ctx, &customers); err != nil {
		utils.HandleError(c, err)
		return
	}

	result := models.DuplicateCheckResult{}
	lowerName := strings.ToLower(companyName)
	lowerEmail := strings.ToLower(email)

	for _, customer := range customers {
		if customer.ID == excludeID {
			continue
		}
		if lowerName != "" && strings.ToLower(customer.CompanyName) == lowerName {
			result.IsDuplicate = true
			result.Message = "公司名称已存在"
			break
		}
		if lowerEmail != "" {
			contactEmails := []string{
				strings.ToLower(customer.ContactPerson1.Email),
				strings.ToLower(customer.ContactPerson2.Email),
				strings.ToLower(customer.ContactPerson3.Email),
			}
			for _, ce := range contactEmails {
				if ce != "" && ce == lowerEmail {
					result.IsDuplicate = true
					result.Message = "联系人邮箱已存在"
					break
				}
			}
			if result.IsDuplicate {
				break
			}
		}
	}

	utils.SuccessResponse(c, result, "")
}
