package middleware

import (
	"strconv"
	"time"

	"webhook-gateway/internal/platform/logger"
	"webhook-gateway/internal/platform/metrics"

	"github.com/gin-gonic/gin"
)

// AccessLogMiddleware 記錄每個請求的訪問日誌並更新 HTTP 指標
func AccessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		latencyMS := float64(latency.Microseconds()) / 1000.0
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		metrics.HTTPRequestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
		metrics.RequestLatencyMS.Observe(latencyMS)

		logger.Info(c.Request.Context(), "request completed",
			logger.WithRequestID(GetRequestID(c)),
			logger.WithHTTPRequest(&logger.HTTPRequest{
				RequestMethod: c.Request.Method,
				RequestURL:    c.Request.URL.Path,
				Status:        status,
				ResponseSize:  int64(c.Writer.Size()),
				UserAgent:     c.Request.UserAgent(),
				RemoteIP:      GetClientIP(c),
				Latency:       latency.String(),
				Protocol:      c.Request.Proto,
			}))
	}
}
