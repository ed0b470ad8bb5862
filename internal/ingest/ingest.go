package ingest

import (
	"context"
	"encoding/json"
	"errors"

	"webhook-gateway/internal/message"
	"webhook-gateway/internal/platform/logger"
	"webhook-gateway/internal/security/signature"
	msgstore "webhook-gateway/internal/storage/database/message"
)

// Class 單一 webhook 請求的終態分類.
type Class int

const (
	// ClassCreated 新訊息已寫入
	ClassCreated Class = iota
	// ClassDuplicate 重複 message_id，原記錄保持不變，對呼叫端仍視為成功
	ClassDuplicate
	// ClassStorageFault 存儲故障，對呼叫端仍回成功但需告警
	ClassStorageFault
	// ClassAuthMissing 未帶簽名標頭
	ClassAuthMissing
	// ClassAuthMismatch 簽名不符
	ClassAuthMismatch
	// ClassMisconfigured 共享密鑰未配置
	ClassMisconfigured
	// ClassInvalid payload 驗證失敗
	ClassInvalid
)

// Outcome 處理結果.
type Outcome struct {
	Class       Class
	FieldErrors []message.FieldError // 僅 ClassInvalid 時有值
	MessageID   string               // 驗證通過後有值
	Err         error                // 僅 ClassStorageFault 時有值
}

// Ingestor webhook 處理協調器
// 依序執行：簽名驗證 → payload 驗證 → 冪等插入，
// 前一步失敗即短路，不會觸碰存儲層.
type Ingestor struct {
	verifier *signature.Verifier
	store    msgstore.MessageRepository
}

// NewIngestor 創建處理協調器.
func NewIngestor(verifier *signature.Verifier, store msgstore.MessageRepository) *Ingestor {
	return &Ingestor{
		verifier: verifier,
		store:    store,
	}
}

// Ingest 處理單一 webhook 請求
// 簽名驗證基於原始 body bytes，先於任何 JSON 解析.
func (i *Ingestor) Ingest(ctx context.Context, rawBody []byte, sig string) *Outcome {
	// 第一步：簽名驗證
	if err := i.verifier.Verify(rawBody, sig); err != nil {
		switch {
		case errors.Is(err, signature.ErrServerMisconfigured):
			return &Outcome{Class: ClassMisconfigured}
		case errors.Is(err, signature.ErrMissingSignature):
			return &Outcome{Class: ClassAuthMissing}
		default:
			return &Outcome{Class: ClassAuthMismatch}
		}
	}

	// 第二步：解析與驗證 payload
	var payload message.WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return &Outcome{
			Class: ClassInvalid,
			FieldErrors: []message.FieldError{{
				Field:   "body",
				Code:    message.CodeInvalidPayload,
				Message: "request body is not valid JSON",
			}},
		}
	}

	if fieldErrors := message.ValidateWebhookPayload(&payload); len(fieldErrors) > 0 {
		return &Outcome{Class: ClassInvalid, FieldErrors: fieldErrors}
	}

	// 第三步：冪等插入
	record := &msgstore.Message{
		MessageID:  payload.MessageID,
		FromMSISDN: payload.From,
		ToMSISDN:   payload.To,
		TS:         payload.TS,
		Text:       payload.Text,
	}

	result, err := i.store.Insert(ctx, record)
	if err != nil {
		// 對呼叫端維持成功回應（webhook 重試冪等契約），
		// 故障透過 ERROR 日誌與指標讓運維可見
		logger.Error(ctx, "存儲訊息失敗",
			logger.WithMessageID(payload.MessageID),
			logger.WithAction("webhook_ingest"),
			logger.WithDetails(map[string]interface{}{"error": err.Error()}))
		return &Outcome{Class: ClassStorageFault, MessageID: payload.MessageID, Err: err}
	}

	if result == msgstore.InsertDuplicate {
		logger.Info(ctx, "Webhook duplicate",
			logger.WithMessageID(payload.MessageID),
			logger.WithResult("duplicate"),
			logger.WithDetails(map[string]interface{}{"dup": true}))
		return &Outcome{Class: ClassDuplicate, MessageID: payload.MessageID}
	}

	logger.Info(ctx, "Webhook processed",
		logger.WithMessageID(payload.MessageID),
		logger.WithSender(payload.From),
		logger.WithResult("created"),
		logger.WithDetails(map[string]interface{}{"dup": false}))

	return &Outcome{Class: ClassCreated, MessageID: payload.MessageID}
}
