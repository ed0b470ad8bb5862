package message

// WebhookPayload webhook 入站訊息請求.
// 欄位名稱與上游 webhook 的 JSON 格式一致（from/to），
// 存儲層使用 from_msisdn/to_msisdn.
type WebhookPayload struct {
	MessageID string  `json:"message_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	TS        string  `json:"ts"`
	Text      *string `json:"text,omitempty"`
}

// FieldError 單一欄位的驗證錯誤.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// 驗證錯誤代碼常數.
const (
	CodeEmptyField         = "empty_field"
	CodeInvalidPhoneNumber = "invalid_phone_number"
	CodeInvalidTimestamp   = "invalid_timestamp"
	CodeFieldTooLong       = "field_too_long"
	CodeInvalidPayload     = "invalid_payload"
)

// 欄位名稱常數（對外 JSON 名稱）.
const (
	FieldMessageID = "message_id"
	FieldFrom      = "from"
	FieldTo        = "to"
	FieldTS        = "ts"
	FieldText      = "text"
)
