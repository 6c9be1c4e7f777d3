package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Industry 客户行业枚举
type Industry string

const (
	IndustryAutomobile    Industry = "Automobile"
	IndustryHealthcare    Industry = "Healthcare"
	IndustryManufacturing Industry = "Manufacturing"
	IndustryLogistics     Industry = "Logistics"
	IndustryEducation     Industry = "Education"
)

// Industries 所有合法行业值
var Industries = []Industry{
	IndustryAutomobile,
	IndustryHealthcare,
	IndustryManufacturing,
	IndustryLogistics,
	IndustryEducation,
}

// IsValid 判断行业取值是否合法
func (i Industry) IsValid() bool {
	for _, v := range Industries {
		if i == v {
			return true
		}
	}
	return false
}

// CustomerStage 客户销售阶段枚举
// 持久化时必须保持字面量字符串，与历史数据兼容
type CustomerStage string

const (
	StageInProgress    CustomerStage = "In Progress"
	StageDemoScheduled CustomerStage = "Demo Scheduled"
	StageNegotiation   CustomerStage = "Negotiation"
	StageClosedWon     CustomerStage = "Closed Won"
	StageClosedLost    CustomerStage = "Closed Lost"
	StageDeferred      CustomerStage = "Deferred"
)

// CustomerStages 所有合法阶段值
var CustomerStages = []CustomerStage{
	StageInProgress,
	StageDemoScheduled,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
	StageDeferred,
}

// IsValid 判断阶段取值是否合法
func (s CustomerStage) IsValid() bool {
	for _, v := range CustomerStages {
		if s == v {
			return true
		}
	}
	return false
}

// AuditAction 审计日志动作枚举
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLogEntry 审计日志条目，只追加不修改
type AuditLogEntry struct {
	Action    AuditAction `bson:"action" json:"action"`
	UserID    string      `bson:"userId" json:"userId"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Details   string      `bson:"details" json:"details"`
}

// CustomerComment 客户备注
type CustomerComment struct {
	UserID    string    `bson:"userId" json:"userId"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Text      string    `bson:"text" json:"text"`
}

// ContactPerson 联系人
type ContactPerson struct {
	Name        string `bson:"name" json:"name"`
	Designation string `bson:"designation" json:"designation"`
	Mobile      string `bson:"mobile" json:"mobile"`
	Email       string `bson:"email" json:"email"`
}

// Customer 客户模型
type Customer struct {
	OID               primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ID                string             `bson:"id" json:"id"`
	CompanyName       string             `bson:"companyName" json:"companyName"`
	Location          string             `bson:"location" json:"location"`
	Industry          Industry           `bson:"industry" json:"industry"`
	Website           string             `bson:"website" json:"website"`
	CustomerPotential string             `bson:"customerPotential" json:"customerPotential"`
	Stage             CustomerStage      `bson:"stage" json:"stage"`
	AdditionalNotes   string             `bson:"additionalNotes" json:"additionalNotes"`
	ContactPerson1    ContactPerson      `bson:"contactPerson1" json:"contactPerson1"`
	ContactPerson2    ContactPerson      `bson:"contactPerson2" json:"contactPerson2"`
	ContactPerson3    ContactPerson      `bson:"contactPerson3" json:"contactPerson3"`
	AuditLog          []AuditLogEntry    `bson:"auditLog" json:"auditLog"`
	Comments          []CustomerComment  `bson:"comments" json:"comments"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CustomerCreateRequest 创建客户请求
type CustomerCreateRequest struct {
	CompanyName       string        `json:"companyName" binding:"required"`
	Location          string        `json:"location" binding:"required"`
	Industry          Industry      `json:"industry" binding:"required"`
	Website           string        `json:"website"`
	CustomerPotential string        `json:"customerPotential"`
	Stage             CustomerStage `json:"stage"`
	AdditionalNotes   string        `json:"additionalNotes"`
	ContactPerson1    ContactPerson `json:"contactPerson1"`
	ContactPerson2    ContactPerson `json:"contactPerson2"`
	ContactPerson3    ContactPerson `json:"contactPerson3"`
}

// CustomerUpdateRequest 更新客户请求，零值字段不参与更新
type CustomerUpdateRequest struct {
	CompanyName       string         `json:"companyName"`
	Location          string         `json:"location"`
	Industry          Industry       `json:"industry"`
	Website           *string        `json:"website"`
	CustomerPotential *string        `json:"customerPotential"`
	Stage             CustomerStage  `json:"stage"`
	AdditionalNotes   *string        `json:"additionalNotes"`
	ContactPerson1    *ContactPerson `json:"contactPerson1"`
	ContactPerson2    *ContactPerson `json:"contactPerson2"`
	ContactPerson3    *ContactPerson `json:"contactPerson3"`
}

// AddCommentRequest 添加客户备注请求
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// DuplicateCheckResult 客户查重结果
type DuplicateCheckResult struct {
	IsDuplicate bool   `json:"isDuplicate"`
	Message     string `json:"message,omitempty"`
}
