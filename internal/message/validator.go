package message

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"webhook-gateway/internal/constants"

	"github.com/nyaruka/phonenumbers"
)

// e164Pattern E.164 格式：+ 開頭，首位國碼數字不為 0，總共 2-15 位數字.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// ValidateWebhookPayload 驗證 webhook payload.
// 收集所有欄位的錯誤後一次回傳，不在第一個錯誤就中斷，
// 讓呼叫端能產生完整的 422 回應.
func ValidateWebhookPayload(p *WebhookPayload) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(p.MessageID) == "" {
		errs = append(errs, FieldError{
			Field:   FieldMessageID,
			Code:    CodeEmptyField,
			Message: "message_id cannot be empty",
		})
	}

	if err := validateMSISDN(p.From); err != nil {
		errs = append(errs, FieldError{
			Field:   FieldFrom,
			Code:    CodeInvalidPhoneNumber,
			Message: err.Error(),
		})
	}

	if err := validateMSISDN(p.To); err != nil {
		errs = append(errs, FieldError{
			Field:   FieldTo,
			Code:    CodeInvalidPhoneNumber,
			Message: err.Error(),
		})
	}

	if err := validateTimestamp(p.TS); err != nil {
		errs = append(errs, FieldError{
			Field:   FieldTS,
			Code:    CodeInvalidTimestamp,
			Message: err.Error(),
		})
	}

	if p.Text != nil && len(*p.Text) > constants.MaxTextLength {
		errs = append(errs, FieldError{
			Field:   FieldText,
			Code:    CodeFieldTooLong,
			Message: fmt.Sprintf("text exceeds maximum length of %d characters", constants.MaxTextLength),
		})
	}

	return errs
}

// validateMSISDN 驗證電話號碼
// 先檢查 E.164 語法，再用 libphonenumber 元數據確認是可能被分配的真實號碼，
// 排除語法正確但不存在的號段.
func validateMSISDN(v string) error {
	if !e164Pattern.MatchString(v) {
		return fmt.Errorf("must be E.164 format (e.g. +14155550100)")
	}

	// E.164 帶 + 前綴時不需要預設地區
	parsed, err := phonenumbers.Parse(v, "")
	if err != nil {
		return fmt.Errorf("could not parse phone number")
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return fmt.Errorf("invalid phone number")
	}

	return nil
}

// validateTimestamp 驗證事件時間戳
// 必須是以 Z 結尾的 UTC ISO-8601 字串；存儲層依賴這個固定格式
// 做字串字典序排序，等價於時間排序.
func validateTimestamp(v string) error {
	if !strings.HasSuffix(v, "Z") {
		return fmt.Errorf("timestamp must be UTC ISO-8601 ending with 'Z'")
	}

	if _, err := time.Parse(time.RFC3339, v); err != nil {
		return fmt.Errorf("invalid ISO-8601 timestamp")
	}

	return nil
}
