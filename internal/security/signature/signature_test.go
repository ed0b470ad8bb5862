package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func signWith(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_ValidSignature(t *testing.T) {
	v := NewVerifier("testsecret")
	body := []byte(`{"message_id":"m1","from":"+14155550100","to":"+14155550199","ts":"2025-01-01T00:00:00Z"}`)

	if err := v.Verify(body, signWith("testsecret", body)); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerify_Failures(t *testing.T) {
	body := []byte(`{"message_id":"m1"}`)
	good := signWith("testsecret", body)

	testCases := []struct {
		name    string
		secret  string
		body    []byte
		sig     string
		wantErr error
	}{
		{"Secret unset", "", body, good, ErrServerMisconfigured},
		{"Secret unset and no signature", "", body, "", ErrServerMisconfigured},
		{"Missing signature", "testsecret", body, "", ErrMissingSignature},
		{"Wrong secret", "othersecret", body, good, ErrSignatureMismatch},
		{"Tampered body", "testsecret", []byte(`{"message_id":"m2"}`), good, ErrSignatureMismatch},
		{"Truncated signature", "testsecret", body, good[:10], ErrSignatureMismatch},
		{"Uppercase hex", "testsecret", body, strings.ToUpper(good), ErrSignatureMismatch},
		{"Garbage signature", "testsecret", body, "deadbeef", ErrSignatureMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewVerifier(tc.secret)
			err := v.Verify(tc.body, tc.sig)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Verify() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestVerify_RawBytesNotCanonicalJSON(t *testing.T) {
	// 語義相同但位元組不同的 JSON 必須得到不同簽名，
	// 驗證必須基於原始位元組
	v := NewVerifier("testsecret")
	a := []byte(`{"message_id":"m1","from":"+14155550100"}`)
	b := []byte(`{"from":"+14155550100","message_id":"m1"}`)

	if err := v.Verify(a, v.Sign(a)); err != nil {
		t.Fatalf("self-signed body should verify: %v", err)
	}
	if err := v.Verify(b, v.Sign(a)); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("reordered JSON should not verify, got %v", err)
	}
}

func TestConfigured(t *testing.T) {
	if NewVerifier("").Configured() {
		t.Error("empty secret should not be configured")
	}
	if !NewVerifier("s").Configured() {
		t.Error("non-empty secret should be configured")
	}
}
