package message

import (
	"strings"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

// validPayload 構造一個通過所有驗證的 payload
func validPayload() *WebhookPayload {
	return &WebhookPayload{
		MessageID: "m1",
		From:      "+14155550100",
		To:        "+14155550199",
		TS:        "2025-01-01T00:00:00Z",
		Text:      strPtr("hi"),
	}
}

func TestValidateWebhookPayload_Valid(t *testing.T) {
	if errs := ValidateWebhookPayload(validPayload()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateWebhookPayload_TextOptional(t *testing.T) {
	p := validPayload()
	p.Text = nil
	if errs := ValidateWebhookPayload(p); len(errs) != 0 {
		t.Fatalf("expected no errors for missing text, got %v", errs)
	}
}

func TestValidateWebhookPayload_FieldErrors(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(*WebhookPayload)
		wantField string
		wantCode  string
	}{
		{"Empty message_id", func(p *WebhookPayload) { p.MessageID = "" }, FieldMessageID, CodeEmptyField},
		{"Blank message_id", func(p *WebhookPayload) { p.MessageID = "   " }, FieldMessageID, CodeEmptyField},
		{"From not E.164", func(p *WebhookPayload) { p.From = "123" }, FieldFrom, CodeInvalidPhoneNumber},
		{"From missing plus", func(p *WebhookPayload) { p.From = "14155550100" }, FieldFrom, CodeInvalidPhoneNumber},
		{"From leading zero country code", func(p *WebhookPayload) { p.From = "+04155550100" }, FieldFrom, CodeInvalidPhoneNumber},
		{"From too long", func(p *WebhookPayload) { p.From = "+1234567890123456" }, FieldFrom, CodeInvalidPhoneNumber},
		// 語法正確的 E.164 但不是可分配的真實號碼
		{"From implausible number", func(p *WebhookPayload) { p.From = "+1234" }, FieldFrom, CodeInvalidPhoneNumber},
		{"To not E.164", func(p *WebhookPayload) { p.To = "hello" }, FieldTo, CodeInvalidPhoneNumber},
		{"TS missing Z", func(p *WebhookPayload) { p.TS = "2025-01-01T00:00:00" }, FieldTS, CodeInvalidTimestamp},
		{"TS with offset", func(p *WebhookPayload) { p.TS = "2025-01-01T00:00:00+08:00" }, FieldTS, CodeInvalidTimestamp},
		{"TS garbage", func(p *WebhookPayload) { p.TS = "not-a-timeZ" }, FieldTS, CodeInvalidTimestamp},
		{"Text too long", func(p *WebhookPayload) { p.Text = strPtr(strings.Repeat("a", 4097)) }, FieldText, CodeFieldTooLong},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			tc.mutate(p)

			errs := ValidateWebhookPayload(p)
			if len(errs) != 1 {
				t.Fatalf("expected exactly 1 error, got %d: %v", len(errs), errs)
			}
			if errs[0].Field != tc.wantField {
				t.Errorf("field = %q, want %q", errs[0].Field, tc.wantField)
			}
			if errs[0].Code != tc.wantCode {
				t.Errorf("code = %q, want %q", errs[0].Code, tc.wantCode)
			}
		})
	}
}

func TestValidateWebhookPayload_TextBoundary(t *testing.T) {
	p := validPayload()
	p.Text = strPtr(strings.Repeat("a", 4096))
	if errs := ValidateWebhookPayload(p); len(errs) != 0 {
		t.Fatalf("4096 chars should be accepted, got %v", errs)
	}
}

func TestValidateWebhookPayload_CollectsAllErrors(t *testing.T) {
	// 多個欄位同時出錯，必須全部收集而不是在第一個就中斷
	p := &WebhookPayload{
		MessageID: "",
		From:      "123",
		To:        "abc",
		TS:        "yesterday",
		Text:      strPtr(strings.Repeat("x", 5000)),
	}

	errs := ValidateWebhookPayload(p)
	if len(errs) != 5 {
		t.Fatalf("expected 5 errors, got %d: %v", len(errs), errs)
	}

	gotFields := make(map[string]bool)
	for _, e := range errs {
		gotFields[e.Field] = true
	}
	for _, field := range []string{FieldMessageID, FieldFrom, FieldTo, FieldTS, FieldText} {
		if !gotFields[field] {
			t.Errorf("missing error for field %q", field)
		}
	}
}

func TestValidateWebhookPayload_FractionalSeconds(t *testing.T) {
	// RFC3339 允許小數秒；存儲層的字典序排序假設固定寬度格式，
	// 混合精度的輸入會進到存儲層（參見 store 的排序測試）
	p := validPayload()
	p.TS = "2025-01-01T00:00:00.500Z"
	if errs := ValidateWebhookPayload(p); len(errs) != 0 {
		t.Fatalf("fractional seconds should parse, got %v", errs)
	}
}
