package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webhook-gateway/internal/ingest"
	"webhook-gateway/internal/platform/config"
	"webhook-gateway/internal/platform/logger"
	"webhook-gateway/internal/security/signature"
	"webhook-gateway/internal/storage/database"
)

// Start 啟動 HTTP 伺服器並阻塞到收到關閉信號.
func Start(repos *database.Repositories) error {
	cfg := config.Get()

	// 組裝依賴：密鑰在這裡注入一次，請求處理不再讀取全局配置
	verifier := signature.NewVerifier(cfg.Webhook.Secret)
	if !verifier.Configured() {
		// 服務仍會啟動，但 /webhook 回 503、/health/ready 回報 not_ready
		logger.LogErrorf("WEBHOOK_SECRET 未設置")
	}

	ing := ingest.NewIngestor(verifier, repos.Message)

	// setting router
	router := Router(repos.Message, ing, verifier.Configured())

	// create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.Timeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.Timeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// start server
	go func() {
		logger.LogInfof("伺服器正在監聽埠口: %s", cfg.Server.Port)

		var err error
		if cfg.Server.UseHTTPS {
			server.TLSConfig = baseTLSConfig()
			err = server.ListenAndServeTLS(cfg.Server.CertPath, cfg.Server.KeyPath)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.LogErrorf("伺服器啟動失敗: %v", err)
			os.Exit(1)
		}
	}()

	// 等待關閉信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.LogInfof("收到關閉信號，正在優雅關閉伺服器...")

	// 優雅關閉
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogErrorf("伺服器關閉失敗: %v", err)
		return err
	}

	logger.LogInfof("伺服器已優雅關閉")
	return nil
}
