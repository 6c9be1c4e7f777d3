package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CallStatus 呼叫结果枚举
// 持久化时必须保持字面量字符串，与历史数据兼容
type CallStatus string

const (
	CallStatusDemoScheduled    CallStatus = "Demo Scheduled"
	CallStatusPostDemoFollowup CallStatus = "Post Demo Followup"
	CallStatusInfoSent         CallStatus = "Info Sent"
	CallStatusFollowUpNeeded   CallStatus = "Follow up Needed"
	CallStatusNotRightPerson   CallStatus = "Not Right Person"
	CallStatusFirmNo           CallStatus = "Firm No"
	CallStatusLost             CallStatus = "Lost"
)

// CallStatuses 所有合法呼叫结果
var CallStatuses = []CallStatus{
	CallStatusDemoScheduled,
	CallStatusPostDemoFollowup,
	CallStatusInfoSent,
	CallStatusFollowUpNeeded,
	CallStatusNotRightPerson,
	CallStatusFirmNo,
	CallStatusLost,
}

// IsValid 判断呼叫结果取值是否合法
func (s CallStatus) IsValid() bool {
	for _, v := range CallStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// AttemptNumber 拨打次数
// 历史数据中该字段既可能是数字也可能是数字字符串，
// 反序列化时统一归一为整数，避免 1 与 "1" 被当作两个不同的次数
type AttemptNumber int

// UnmarshalJSON 同时接受JSON数字和数字字符串
func (a *AttemptNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// 兼容 "1.0" 这类浮点写法
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("无效的拨打次数: %s", s)
		}
		n = int(f)
	}
	*a = AttemptNumber(n)
	return nil
}

// UnmarshalBSONValue 兼容存量文档中的int32/int64/double/string存储
func (a *AttemptNumber) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		*a = AttemptNumber(rv.Int32())
	case bsontype.Int64:
		*a = AttemptNumber(rv.Int64())
	case bsontype.Double:
		*a = AttemptNumber(int(rv.Double()))
	case bsontype.String:
		n, err := strconv.Atoi(strings.TrimSpace(rv.StringValue()))
		if err != nil {
			return fmt.Errorf("无效的拨打次数: %s", rv.StringValue())
		}
		*a = AttemptNumber(n)
	case bsontype.Null:
		*a = 0
	default:
		return fmt.Errorf("拨打次数不支持的BSON类型: %s", t)
	}
	return nil
}

// MarshalBSONValue 新写入一律存储为int32
func (a AttemptNumber) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(int32(a))
}

// CallLog 呼叫记录，创建后不再修改或删除
type CallLog struct {
	OID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ID            string             `bson:"id" json:"id"`
	CustomerID    string             `bson:"customerId" json:"customerId"`
	UserID        string             `bson:"userId" json:"userId"`
	Date          time.Time          `bson:"date" json:"date"`
	AttemptNumber AttemptNumber      `bson:"attemptNumber" json:"attemptNumber"`
	Status        CallStatus         `bson:"status" json:"status"`
	Comments      string             `bson:"comments" json:"comments"`
	IsDemo        bool               `bson:"isDemo" json:"isDemo"`
}

// CreateCallLogInput 提交呼叫记录的输入数据
type CreateCallLogInput struct {
	CustomerID    string        `json:"customerId" binding:"required"`
	AttemptNumber AttemptNumber `json:"attemptNumber" binding:"required,min=1"`
	Status        CallStatus    `json:"status" binding:"required"`
	Comments      string        `json:"comments"`
	IsDemo        bool          `json:"isDemo"`
}
