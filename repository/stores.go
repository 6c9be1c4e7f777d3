package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/BerniceZTT/leadline_end/models"
	"github.com/BerniceZTT/leadline_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCallLogStore 呼叫记录存储的MongoDB实现
type MongoCallLogStore struct{}

// ListByCustomer 返回某客户的全部呼叫记录，按时间倒序
func (s *MongoCallLogStore) ListByCustomer(ctx context.Context, customerID string) ([]models.CallLog, error) {
	collection := Collection(CallLogsCollection)

	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := collection.Find(ctx, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.CallLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	utils.LogDbOperation("find", CallLogsCollection, bson.M{"customerId": customerID}, len(logs))
	return logs, nil
}

// Insert 写入新呼叫记录
func (s *MongoCallLogStore) Insert(ctx context.Context, log *models.CallLog) error {
	result, err := Collection(CallLogsCollection).InsertOne(ctx, log)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		log.OID = oid
	}
	utils.LogDbOperation("insert", CallLogsCollection, bson.M{"id": log.ID}, result.InsertedID)
	return nil
}

// MongoCustomerStore 客户存储的MongoDB实现
type MongoCustomerStore struct{}

// CustomerFilter 按字符串ID构造查询条件
// 历史数据既可能以id字段寻址，也可能直接使用_id的十六进制形式
func CustomerFilter(id string) bson.M {
	if objID, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": []bson.M{
			{"id": id},
			{"_id": objID},
		}}
	}
	return bson.M{"id": id}
}

// FindByID 按字符串ID查找客户，未找到时返回 (nil, nil)
func (s *MongoCustomerStore) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := Collection(CustomersCollection).FindOne(ctx, CustomerFilter(id)).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// UpdateStage 更新客户阶段并追加一条审计日志
func (s *MongoCustomerStore) UpdateStage(ctx context.Context, id string, stage models.CustomerStage, entry models.AuditLogEntry) error {
	result, err := Collection(CustomersCollection).UpdateOne(
		ctx,
		CustomerFilter(id),
		bson.M{
			"$set":  bson.M{"stage": stage, "updatedAt": time.Now()},
			"$push": bson.M{"auditLog": entry},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("客户不存在: %s", id)
	}
	return nil
}
