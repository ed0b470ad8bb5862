package message

import (
	"context"
)

// MessageRepository message 倉儲接口.
type MessageRepository interface {
	Insert(ctx context.Context, message *Message) (InsertResult, error)
	Query(ctx context.Context, filter QueryFilter) (*QueryResult, error)
	Stats(ctx context.Context) (*StatsResult, error)
	Ping(ctx context.Context) bool
}

// Message message 數據模型.
// message_id 直接作為 _id，由 _id 唯一索引保證冪等插入；
// 記錄寫入後不可變，不提供更新與刪除.
type Message struct {
	MessageID  string  `bson:"_id" json:"message_id"`
	FromMSISDN string  `bson:"from_msisdn" json:"from"`
	ToMSISDN   string  `bson:"to_msisdn" json:"to"`
	TS         string  `bson:"ts" json:"ts"`
	Text       *string `bson:"text,omitempty" json:"text"`
	CreatedAt  string  `bson:"created_at" json:"-"` // 服務端寫入時間，不由呼叫端控制
}

// InsertResult 插入結果分類.
type InsertResult int

const (
	// InsertCreated 新記錄已寫入
	InsertCreated InsertResult = iota
	// InsertDuplicate message_id 已存在，原記錄保持不變
	InsertDuplicate
)

// QueryFilter 查詢條件，各條件為 AND 組合.
type QueryFilter struct {
	Limit    int
	Offset   int
	From     string // 發送者 MSISDN 精確匹配
	Since    string // ts >= since（依賴固定寬度 UTC 格式的字典序）
	Contains string // text 子字串匹配（區分大小寫）
}

// QueryResult 查詢結果：分頁資料加上同一條件下的總筆數.
type QueryResult struct {
	Messages []*Message
	Total    int64
	Limit    int
	Offset   int
}

// SenderCount 單一發送者的訊息數.
type SenderCount struct {
	From  string `bson:"_id" json:"from"`
	Count int64  `bson:"count" json:"count"`
}

// StatsResult 聚合統計結果.
type StatsResult struct {
	TotalMessages int64
	SendersCount  int64
	PerSender     []SenderCount
	FirstTS       *string // 空庫時為 nil
	LastTS        *string
}
