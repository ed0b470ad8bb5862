package httputil

import "github.com/gin-gonic/gin"

// 狀態訊息常數.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// 錯誤訊息常數.
const (
	InvalidSignature    = "invalid signature"
	ServerMisconfigured = "Server misconfiguration"
	ValidationFailed    = "Validation error"
	InvalidParameter    = "Invalid parameter"
)

// OK 回傳 webhook 接受回應.
func OK() gin.H {
	return gin.H{"status": StatusOK}
}

// ErrorMessage 回傳簡單的錯誤訊息回應.
func ErrorMessage(message string) gin.H {
	return gin.H{"detail": message}
}

// PageResponse 分頁查詢回應結構.
type PageResponse struct {
	Data   interface{} `json:"data"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// NewPageResponse 創建分頁回應.
func NewPageResponse(data interface{}, total int64, limit, offset int) *PageResponse {
	return &PageResponse{
		Data:   data,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}
