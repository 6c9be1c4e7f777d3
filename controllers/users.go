package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/leadline_end/models"
	"github.com/BerniceZTT/leadline_end/repository"
	"github.com/BerniceZTT/leadline_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetUsers 获取用户列表（仅管理员）
func GetUsers(c *gin.Context) {
	ctx := repository.GetContext()
	collection := repository.Collection(repository.UsersCollection)

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, users, "")
}

// GetCurrentUser 获取当前登录用户信息
func GetCurrentUser(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var user models.User
	collection := repository.Collection(repository.UsersCollection)
	err = collection.FindOne(repository.GetContext(), bson.M{"id": loginUser.ID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("用户"))
			return
		}
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user, "")
}

// CreateUser 创建用户（仅管理员）
func CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Role == "" {
		req.Role = models.UserRoleUSER
	}
	if req.Role != models.UserRoleADMIN && req.Role != models.UserRoleUSER {
		utils.HandleError(c, utils.CreateValidationError("无效的用户角色"))
		return
	}

	ctx := repository.GetContext()
	collection := repository.Collection(repository.UsersCollection)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 邮箱唯一
	count, err := collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if count > 0 {
		utils.HandleError(c, utils.CreateValidationError("该邮箱已被注册"))
		return
	}

	user := models.User{
		ID:          uuid.NewString(),
		Email:       email,
		Password:    utils.HashPassword(req.Password),
		DisplayName: req.DisplayName,
		Role:        req.Role,
		CreatedAt:   time.Now(),
	}

	if _, err := collection.InsertOne(ctx, user); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Logger.Info().Str("email", email).Str("role", string(user.Role)).Msg("创建用户成功")
	utils.SuccessResponse(c, user, "创建用户成功", http.StatusCreated)
}
