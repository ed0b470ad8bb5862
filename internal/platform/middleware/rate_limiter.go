package middleware

import (
	"net/http"
	"sync"
	"time"

	"webhook-gateway/internal/constants"

	"github.com/gin-gonic/gin"
)

// RateLimiter 速率限制器
type RateLimiter struct {
	visitors map[string]*Visitor
	mu       sync.RWMutex
	rate     int           // 每個時間窗口允許的請求數
	window   time.Duration // 時間窗口
}

// Visitor 訪問者信息
type Visitor struct {
	lastSeen  time.Time
	requests  int
	resetTime time.Time
}

// NewRateLimiter 創建新的速率限制器
// rate: 每個時間窗口允許的請求數
// window: 時間窗口（例如：time.Minute）
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*Visitor),
		rate:     rate,
		window:   window,
	}

	// 啟動清理 goroutine，定期清理過期的訪問者記錄
	go rl.cleanupVisitors()

	return rl
}

// allowRequest 檢查是否允許請求
func (rl *RateLimiter) allowRequest(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	visitor, exists := rl.visitors[ip]

	if !exists {
		// 新訪問者
		rl.visitors[ip] = &Visitor{
			lastSeen:  now,
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	visitor.lastSeen = now

	// 時間窗口已過期，重置計數
	if now.After(visitor.resetTime) {
		visitor.requests = 1
		visitor.resetTime = now.Add(rl.window)
		return true
	}

	if visitor.requests >= rl.rate {
		return false
	}

	visitor.requests++
	return true
}

// cleanupVisitors 定期清理過期的訪問者記錄
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(constants.RateLimitCleanupIntervalMin * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-2 * rl.window)
		for ip, visitor := range rl.visitors {
			if visitor.lastSeen.Before(cutoff) {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// PerEndpointRateLimiter 按端點設置不同速率的限制器
type PerEndpointRateLimiter struct {
	limiters       map[string]*RateLimiter
	defaultLimiter *RateLimiter
	mu             sync.RWMutex
}

// NewPerEndpointRateLimiter 創建按端點的速率限制器
func NewPerEndpointRateLimiter(defaultRate int, window time.Duration) *PerEndpointRateLimiter {
	return &PerEndpointRateLimiter{
		limiters:       make(map[string]*RateLimiter),
		defaultLimiter: NewRateLimiter(defaultRate, window),
	}
}

// SetLimit 為指定端點設置速率限制
func (p *PerEndpointRateLimiter) SetLimit(path string, rate int, window time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limiters[path] = NewRateLimiter(rate, window)
}

// limiterFor 取得端點對應的限制器
func (p *PerEndpointRateLimiter) limiterFor(path string) *RateLimiter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if limiter, ok := p.limiters[path]; ok {
		return limiter
	}
	return p.defaultLimiter
}

// Middleware 返回 Gin 中間件
func (p *PerEndpointRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := p.limiterFor(c.Request.URL.Path)

		if !limiter.allowRequest(ip) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "請求過於頻繁，請稍後再試",
				"success": false,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
