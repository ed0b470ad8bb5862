package server

import (
	"crypto/tls"
)

// baseTLSConfig HTTP 伺服器的 TLS 基礎配置
// 憑證檔案由 ListenAndServeTLS 載入，這裡只收斂協議版本
func baseTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
}
