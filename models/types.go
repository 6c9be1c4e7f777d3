package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleADMIN UserRole = "admin" // 管理员
	UserRoleUSER  UserRole = "user"  // 普通销售用户
)

// User 用户类型
// ID为对外暴露的字符串ID，与历史数据保持一致；_id仅用于MongoDB内部
type User struct {
	OID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ID          string             `bson:"id" json:"id"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"` // 不返回密码
	DisplayName string             `bson:"displayName" json:"displayName"`
	Role        UserRole           `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// 各种请求和响应结构
type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse 登录响应
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	// CreateUserRequest 创建用户请求
	CreateUserRequest struct {
		Email       string   `json:"email" binding:"required,email"`
		Password    string   `json:"password" binding:"required,min=6"`
		DisplayName string   `json:"displayName" binding:"required,min=2"`
		Role        UserRole `json:"role"`
	}
)
