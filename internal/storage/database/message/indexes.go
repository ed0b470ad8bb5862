package message

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CreateIndexes 創建查詢路徑需要的二級索引
// 主鍵唯一性由 _id 索引天然保證，這裡只補 ts 與 from_msisdn
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	messagesCollection := db.Collection("messages")

	// 1. 事件時間索引（排序與 since 過濾）
	tsIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "ts", Value: 1},
		},
		Options: options.Index().SetName("ts_idx"),
	}

	// 2. 發送者索引（from 過濾與 stats 分組）
	senderIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "from_msisdn", Value: 1},
		},
		Options: options.Index().SetName("from_idx"),
	}

	// 3. 發送者 + 事件時間複合索引（from 與 since 同時指定時）
	senderTimeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "from_msisdn", Value: 1},
			{Key: "ts", Value: 1},
		},
		Options: options.Index().SetName("from_ts_idx"),
	}

	messageIndexes := []mongo.IndexModel{
		tsIndex,
		senderIndex,
		senderTimeIndex,
	}

	_, err := messagesCollection.Indexes().CreateMany(ctx, messageIndexes)
	return err
}
