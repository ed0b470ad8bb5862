package main

import (
	"context"
	"fmt"
	"os"

	"webhook-gateway/internal/platform/config"
	"webhook-gateway/internal/platform/driver"
	"webhook-gateway/internal/platform/logger"
	"webhook-gateway/internal/platform/server"
	"webhook-gateway/internal/storage/database"
)

func main() {
	if err := mainNoExit(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// mainNoExit 分離主要邏輯以避免 exitAfterDefer 問題，確保 defer 函數正常執行.
func mainNoExit() error {
	// 載入配置.
	if err := config.Load(); err != nil {
		return err
	}

	// 初始化日誌.
	if err := logger.InitLogger(); err != nil {
		return err
	}
	defer logger.CloseLogger()

	ctx := context.Background()
	logger.Info(ctx, "正在啟動 webhook-gateway...", logger.WithAction("startup"))

	// 連接資料庫.
	if err := driver.ConnectMongo(); err != nil {
		return err
	}
	defer func() {
		if err := driver.CloseMongo(); err != nil {
			logger.Errorf(ctx, "關閉 MongoDB 連接失敗: %v", err)
		}
	}()

	// 設置 MongoDB 連接到 database 包
	database.SetMongoDB(driver.GetMongoDatabase())

	// 初始化 Repository.
	repos := database.NewRepositories()
	if repos == nil {
		return fmt.Errorf("repository initialization failed")
	}

	logger.Info(ctx, "[System] 初始化完成", logger.WithAction("startup"))

	// 啟動 HTTP 服務器（阻塞到收到關閉信號）
	return server.Start(repos)
}
