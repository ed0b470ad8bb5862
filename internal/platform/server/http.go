package server

import (
	"net/http"
	"strconv"
	"time"

	"webhook-gateway/internal/constants"
	"webhook-gateway/internal/httputil"
	"webhook-gateway/internal/ingest"
	"webhook-gateway/internal/platform/config"
	"webhook-gateway/internal/platform/health"
	"webhook-gateway/internal/platform/metrics"
	"webhook-gateway/internal/platform/middleware"
	msgstore "webhook-gateway/internal/storage/database/message"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// securityHeadersMiddleware 添加安全標頭
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止點擊劫持
		c.Header("X-Frame-Options", "DENY")

		// 防止 MIME 類型嗅探
		c.Header("X-Content-Type-Options", "nosniff")

		// 這是純 API 服務，不提供頁面內容
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';")

		// 推薦政策
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}

// Router 設定路由
func Router(repo msgstore.MessageRepository, ing *ingest.Ingestor, secretConfigured bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 添加請求 ID 中間件（最優先）
	r.Use(middleware.RequestIDMiddleware())

	// 添加安全標頭中間件
	r.Use(securityHeadersMiddleware())

	// 添加請求元數據中間件（提取 IP、User-Agent）
	r.Use(middleware.RequestMetadataMiddleware())

	// 訪問日誌與 HTTP 指標
	r.Use(middleware.AccessLogMiddleware())

	// 從配置讀取限制參數
	cfg := config.Get()

	// 創建 Rate Limiter
	defaultLimit := constants.DefaultRateLimitPerMinute
	if cfg != nil && cfg.Limits.RateLimiting.DefaultPerMinute > 0 {
		defaultLimit = cfg.Limits.RateLimiting.DefaultPerMinute
	}
	rateLimiter := middleware.NewPerEndpointRateLimiter(defaultLimit, time.Minute)

	// webhook 端點允許較高的突發流量（上游供應商會重試）
	if cfg != nil && cfg.Limits.RateLimiting.Enabled {
		webhookLimit := constants.DefaultWebhookRateLimit
		if cfg.Limits.RateLimiting.WebhookPerMin > 0 {
			webhookLimit = cfg.Limits.RateLimiting.WebhookPerMin
		}
		rateLimiter.SetLimit("/webhook", webhookLimit, time.Minute)

		r.Use(rateLimiter.Middleware())
	}

	// 創建處理器
	healthHandler := health.NewHealthHandler(repo, secretConfigured)

	// health check
	r.GET("/health/live", healthHandler.Live)
	r.GET("/health/ready", healthHandler.Ready)

	// prometheus 指標
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// webhook 接收與查詢 API
	r.POST("/webhook", postWebhook(ing))
	r.GET("/messages", listMessages(repo))
	r.GET("/stats", getStats(repo))

	return r
}

// postWebhook 接收 webhook 事件
func postWebhook(ing *ingest.Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxBody := int64(constants.DefaultMaxRequestBodySize)
		if cfg := config.Get(); cfg != nil && cfg.Limits.Request.MaxBodySize > 0 {
			maxBody = cfg.Limits.Request.MaxBodySize
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)

		// 簽名驗證需要原始 body bytes，不能交給 JSON binding
		rawBody, err := c.GetRawData()
		if err != nil {
			httputil.BadRequest(c, httputil.InvalidParameter)
			return
		}

		sig := c.GetHeader(constants.SignatureHeader)
		outcome := ing.Ingest(c.Request.Context(), rawBody, sig)

		switch outcome.Class {
		case ingest.ClassMisconfigured:
			metrics.WebhookRequestsTotal.WithLabelValues(metrics.ResultInvalidSignature).Inc()
			httputil.ServiceUnavailable(c, httputil.ServerMisconfigured)

		case ingest.ClassAuthMissing, ingest.ClassAuthMismatch:
			metrics.WebhookRequestsTotal.WithLabelValues(metrics.ResultInvalidSignature).Inc()
			httputil.Unauthorized(c, httputil.InvalidSignature)

		case ingest.ClassInvalid:
			metrics.WebhookRequestsTotal.WithLabelValues(metrics.ResultValidationError).Inc()
			httputil.UnprocessableEntity(c, outcome.FieldErrors)

		case ingest.ClassDuplicate:
			metrics.WebhookRequestsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
			c.JSON(http.StatusOK, httputil.OK())

		case ingest.ClassStorageFault:
			// 對呼叫端維持冪等成功回應，故障已由 ingest 層記錄
			metrics.WebhookRequestsTotal.WithLabelValues(metrics.ResultError).Inc()
			c.JSON(http.StatusOK, httputil.OK())

		default:
			metrics.WebhookRequestsTotal.WithLabelValues(metrics.ResultCreated).Inc()
			c.JSON(http.StatusOK, httputil.OK())
		}
	}
}

// messageView /messages 回應中單筆訊息的形狀
type messageView struct {
	MessageID string  `json:"message_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	TS        string  `json:"ts"`
	Text      *string `json:"text"`
}

// listMessages 過濾分頁查詢
func listMessages(repo msgstore.MessageRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultQueryLimit)))
		if err != nil {
			httputil.BadRequest(c, httputil.InvalidParameter)
			return
		}

		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil {
			httputil.BadRequest(c, httputil.InvalidParameter)
			return
		}

		filter := msgstore.QueryFilter{
			Limit:    limit,
			Offset:   offset,
			From:     c.Query("from"),
			Since:    c.Query("since"),
			Contains: c.Query("q"),
		}

		result, err := repo.Query(c.Request.Context(), filter)
		if err != nil {
			httputil.InternalServerError(c, err)
			return
		}

		data := make([]messageView, 0, len(result.Messages))
		for _, m := range result.Messages {
			data = append(data, messageView{
				MessageID: m.MessageID,
				From:      m.FromMSISDN,
				To:        m.ToMSISDN,
				TS:        m.TS,
				Text:      m.Text,
			})
		}

		c.JSON(http.StatusOK, httputil.NewPageResponse(data, result.Total, result.Limit, result.Offset))
	}
}

// getStats 聚合統計
func getStats(repo msgstore.MessageRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := repo.Stats(c.Request.Context())
		if err != nil {
			httputil.InternalServerError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_messages":      stats.TotalMessages,
			"senders_count":       stats.SendersCount,
			"messages_per_sender": stats.PerSender,
			"first_message_ts":    stats.FirstTS,
			"last_message_ts":     stats.LastTS,
		})
	}
}
