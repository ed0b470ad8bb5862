package health

import (
	"net/http"

	"webhook-gateway/internal/httputil"
	"webhook-gateway/internal/platform/logger"
	msgstore "webhook-gateway/internal/storage/database/message"

	"github.com/gin-gonic/gin"
)

// Handler 健康檢查處理器.
type Handler struct {
	store            msgstore.MessageRepository
	secretConfigured bool
}

// NewHealthHandler 創建新的健康檢查處理器.
func NewHealthHandler(store msgstore.MessageRepository, secretConfigured bool) *Handler {
	return &Handler{
		store:            store,
		secretConfigured: secretConfigured,
	}
}

// Live 存活探測端點
// 只要進程能回應就回 200，不檢查任何依賴.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": httputil.StatusOK})
}

// Ready 就緒探測端點
// 存儲可達且共享密鑰已配置才回 200，否則回 503 並列出失敗項目.
func (h *Handler) Ready(c *gin.Context) {
	dbReady := h.store.Ping(c.Request.Context())

	if dbReady && h.secretConfigured {
		c.JSON(http.StatusOK, gin.H{"status": httputil.StatusReady})
		return
	}

	logger.Warning(c.Request.Context(), "就緒檢查失敗",
		logger.WithAction("readiness_check"),
		logger.WithDetails(map[string]interface{}{
			"db":     dbReady,
			"secret": h.secretConfigured,
		}))

	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status": httputil.StatusNotReady,
		"db":     dbReady,
		"secret": h.secretConfigured,
	})
}
