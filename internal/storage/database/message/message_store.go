package message

import (
	"context"
	"regexp"
	"time"

	"webhook-gateway/internal/constants"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MessageStore message 存儲實作.
type MessageStore struct {
	collection *mongo.Collection
}

// NewMessageStore 創建新的 message 存儲.
func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{
		collection: db.Collection("messages"),
	}
}

// Insert 冪等插入訊息
// 依賴 _id 唯一索引偵測重複，絕不先查再插（先查再插在併發下有競態），
// 重複時回傳 InsertDuplicate 且原記錄不變.
func (s *MessageStore) Insert(ctx context.Context, message *Message) (InsertResult, error) {
	message.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := s.collection.InsertOne(ctx, message)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return InsertDuplicate, nil
		}
		return InsertCreated, err
	}

	return InsertCreated, nil
}

// buildFilter 組裝查詢條件，各條件為 AND 組合.
func buildFilter(filter QueryFilter) bson.M {
	query := bson.M{}

	if filter.From != "" {
		query["from_msisdn"] = filter.From
	}

	if filter.Since != "" {
		// 所有 ts 均為固定寬度 UTC ISO-8601，字典序比較即時間序比較
		query["ts"] = bson.M{"$gte": filter.Since}
	}

	if filter.Contains != "" {
		// QuoteMeta 讓使用者輸入當作字面子字串；不帶 i 選項，區分大小寫
		query["text"] = bson.M{"$regex": regexp.QuoteMeta(filter.Contains)}
	}

	return query
}

// clampLimit 將 limit 收斂到 [1, 100]，0 表示未指定用預設值.
func clampLimit(limit int) int {
	if limit <= 0 {
		return constants.DefaultQueryLimit
	}
	if limit > constants.MaxQueryLimit {
		return constants.MaxQueryLimit
	}
	return limit
}

// Query 過濾、排序、分頁查詢
// total 與分頁使用同一組條件計算，排序為 ts 升冪、message_id 升冪，
// 全序保證分頁穩定.
func (s *MessageStore) Query(ctx context.Context, filter QueryFilter) (*QueryResult, error) {
	limit := clampLimit(filter.Limit)
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := buildFilter(filter)

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	opts.SetLimit(int64(limit))
	opts.SetSkip(int64(offset))
	opts.SetSort(bson.D{{Key: "ts", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := make([]*Message, 0, limit)
	for cursor.Next(ctx) {
		var message Message
		if err := cursor.Decode(&message); err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return &QueryResult{
		Messages: messages,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// Stats 聚合統計
// 回傳總筆數、相異發送者數、訊息數前十的發送者（次數降冪、
// 同數時依發送者升冪，結果確定性）、最早與最晚的 ts.
func (s *MessageStore) Stats(ctx context.Context) (*StatsResult, error) {
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	result := &StatsResult{
		TotalMessages: total,
		PerSender:     []SenderCount{},
	}

	if total == 0 {
		return result, nil
	}

	// 每個發送者的訊息數，取前十
	topPipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$from_msisdn"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: constants.TopSendersLimit}},
	}

	cursor, err := s.collection.Aggregate(ctx, topPipeline)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &result.PerSender); err != nil {
		return nil, err
	}

	// 相異發送者總數
	countPipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$from_msisdn"}}}},
		bson.D{{Key: "$count", Value: "senders_count"}},
	}

	cursor, err = s.collection.Aggregate(ctx, countPipeline)
	if err != nil {
		return nil, err
	}
	var senderCounts []struct {
		SendersCount int64 `bson:"senders_count"`
	}
	if err := cursor.All(ctx, &senderCounts); err != nil {
		return nil, err
	}
	if len(senderCounts) > 0 {
		result.SendersCount = senderCounts[0].SendersCount
	}

	// ts 的最小與最大值
	rangePipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "first_ts", Value: bson.D{{Key: "$min", Value: "$ts"}}},
			{Key: "last_ts", Value: bson.D{{Key: "$max", Value: "$ts"}}},
		}}},
	}

	cursor, err = s.collection.Aggregate(ctx, rangePipeline)
	if err != nil {
		return nil, err
	}
	var ranges []struct {
		FirstTS string `bson:"first_ts"`
		LastTS  string `bson:"last_ts"`
	}
	if err := cursor.All(ctx, &ranges); err != nil {
		return nil, err
	}
	if len(ranges) > 0 {
		result.FirstTS = &ranges[0].FirstTS
		result.LastTS = &ranges[0].LastTS
	}

	return result, nil
}

// Ping 就緒探測
// 只回傳布林值，任何錯誤都視為未就緒，不向外拋出.
func (s *MessageStore) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.collection.Database().Client().Ping(ctx, nil) == nil
}
