package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// 驗證失敗原因.
var (
	// ErrServerMisconfigured 共享密鑰未配置，一律拒絕而不是放行
	ErrServerMisconfigured = errors.New("webhook secret is not configured")

	// ErrMissingSignature 請求未帶簽名標頭
	ErrMissingSignature = errors.New("missing signature header")

	// ErrSignatureMismatch 簽名不符（含長度不符）
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Verifier webhook 簽名驗證器.
// 密鑰在啟動時注入，請求處理流程不讀取任何全局配置.
type Verifier struct {
	secret []byte
}

// NewVerifier 創建簽名驗證器.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Configured 檢查密鑰是否已配置.
func (v *Verifier) Configured() bool {
	return len(v.secret) > 0
}

// Verify 驗證簽名
// 必須對原始 body bytes 計算，不能先解析 JSON 再重新序列化，
// 重新序列化不保證重現原始位元組.
func (v *Verifier) Verify(rawBody []byte, sig string) error {
	if !v.Configured() {
		return ErrServerMisconfigured
	}

	if sig == "" {
		return ErrMissingSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	computed := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal 是常數時間比較
	if !hmac.Equal([]byte(computed), []byte(sig)) {
		return ErrSignatureMismatch
	}

	return nil
}

// Sign 計算 raw body 的簽名（lowercase hex）
// 測試與本地調試用
func (v *Verifier) Sign(rawBody []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
