package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// webhook 處理結果標籤值.
const (
	ResultCreated          = "created"
	ResultDuplicate        = "duplicate"
	ResultError            = "error"
	ResultInvalidSignature = "invalid_signature"
	ResultValidationError  = "validation_error"
)

var (
	// HTTPRequestsTotal HTTP 請求總數
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "status"},
	)

	// WebhookRequestsTotal webhook 處理結果總數
	WebhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook processing outcomes",
		},
		[]string{"result"},
	)

	// RequestLatencyMS 請求延遲（毫秒）
	RequestLatencyMS = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "request_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: []float64{10, 50, 100, 200, 500, 1000},
		},
	)
)
