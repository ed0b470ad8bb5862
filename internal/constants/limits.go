package constants

// HTTP 請求相關常數
const (
	// 默認值（可被配置覆蓋）
	DefaultMaxRequestBodySize = 1 << 20 // 1MB，webhook payload 遠小於此
	DefaultRequestTimeout     = 30      // 秒
)

// 分頁相關常數
const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 100
	MinQueryLimit     = 1
)

// 訊息欄位相關常數
const (
	// MaxTextLength text 欄位最大長度
	MaxTextLength = 4096

	// MaxMSISDNLength E.164 格式上限：+ 加上最多 15 位數字
	MaxMSISDNLength = 16
)

// 統計相關常數
const (
	// TopSendersLimit /stats 回傳的發送者排行數量
	TopSendersLimit = 10
)

// Rate Limiting 默認值
const (
	DefaultRateLimitPerMinute   = 100
	DefaultWebhookRateLimit     = 300
	RateLimitCleanupIntervalMin = 10 // 分鐘
)

// Webhook 簽名相關常數
const (
	// SignatureHeader 簽名標頭名稱，值為 raw body 的 HMAC-SHA256 hex
	SignatureHeader = "X-Signature"
)
