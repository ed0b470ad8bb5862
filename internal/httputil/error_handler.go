package httputil

import (
	"fmt"
	"net/http"
	"strings"

	"webhook-gateway/internal/platform/logger"
	"webhook-gateway/internal/platform/middleware"

	"github.com/gin-gonic/gin"
)

// SafeError 安全的錯誤響應（不洩露內部信息）
func SafeError(c *gin.Context, statusCode int, err error, userMessage string) {
	requestID := middleware.GetRequestID(c)

	// 記錄真實錯誤到日誌（用於調試）
	logger.Error(c.Request.Context(), fmt.Sprintf("API Error: %v", err),
		logger.WithRequestID(requestID),
		logger.WithDetails(map[string]interface{}{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": statusCode,
		}))

	// 根據錯誤類型決定是否顯示詳情
	message := userMessage
	if shouldShowError(err) {
		message = err.Error()
	}

	c.JSON(statusCode, gin.H{
		"detail":     message,
		"request_id": requestID, // 返回 request ID 便於追蹤
	})
}

// shouldShowError 判斷是否可以向用戶顯示錯誤詳情
func shouldShowError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	// 不應顯示的錯誤關鍵字（可能洩露敏感信息）
	dangerousKeywords := []string{
		"mongo",
		"database",
		"connection",
		"password",
		"secret",
		"credential",
		"internal",
		"stack",
		"panic",
	}

	lowerMsg := strings.ToLower(errMsg)
	for _, keyword := range dangerousKeywords {
		if strings.Contains(lowerMsg, keyword) {
			return false
		}
	}

	return true
}

// InternalServerError 內部服務器錯誤
func InternalServerError(c *gin.Context, err error) {
	SafeError(c, http.StatusInternalServerError, err, "服務器內部錯誤，請稍後再試")
}

// BadRequest 錯誤的請求
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"detail":     message,
		"request_id": middleware.GetRequestID(c),
	})
}

// Unauthorized 未授權
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = InvalidSignature
	}
	c.JSON(http.StatusUnauthorized, gin.H{
		"detail": message,
	})
}

// ServiceUnavailable 服務未就緒
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = ServerMisconfigured
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"detail": message,
	})
}

// UnprocessableEntity 驗證失敗，回傳逐欄位錯誤明細
func UnprocessableEntity(c *gin.Context, fieldErrors interface{}) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"detail": ValidationFailed,
		"errors": fieldErrors,
	})
}
