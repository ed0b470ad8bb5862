package database

import (
	"context"

	"webhook-gateway/internal/platform/logger"
	"webhook-gateway/internal/storage/database/message"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Repositories 倉儲集合.
type Repositories struct {
	Message *message.MessageStore
}

// NewRepositories 創建倉儲集合.
func NewRepositories() *Repositories {
	db := mongoDB
	if db == nil {
		return nil
	}

	// 創建索引以優化查詢性能
	ctx := context.Background()
	if err := message.CreateIndexes(ctx, db); err != nil {
		// 索引創建失敗不中斷服務啟動，查詢仍可運作只是變慢
		logger.Errorf(ctx, "創建索引失敗: %v", err)
	}

	return &Repositories{
		Message: message.NewMessageStore(db),
	}
}

// 全局變數，用於存儲 MongoDB 連接
var mongoDB *mongo.Database

// SetMongoDB 設置 MongoDB 連接.
func SetMongoDB(db *mongo.Database) {
	mongoDB = db
}
