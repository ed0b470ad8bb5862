package ingest

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"webhook-gateway/internal/security/signature"
	msgstore "webhook-gateway/internal/storage/database/message"
)

// fakeStore 記憶體版倉儲，記錄插入次數供斷言
type fakeStore struct {
	messages   map[string]*msgstore.Message
	insertErr  error
	insertCall int
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]*msgstore.Message)}
}

func (f *fakeStore) Insert(ctx context.Context, m *msgstore.Message) (msgstore.InsertResult, error) {
	f.insertCall++
	if f.insertErr != nil {
		return msgstore.InsertCreated, f.insertErr
	}
	if _, exists := f.messages[m.MessageID]; exists {
		// 原記錄保持不變
		return msgstore.InsertDuplicate, nil
	}
	f.messages[m.MessageID] = m
	return msgstore.InsertCreated, nil
}

func (f *fakeStore) Query(ctx context.Context, filter msgstore.QueryFilter) (*msgstore.QueryResult, error) {
	return &msgstore.QueryResult{Messages: []*msgstore.Message{}}, nil
}

func (f *fakeStore) Stats(ctx context.Context) (*msgstore.StatsResult, error) {
	return &msgstore.StatsResult{}, nil
}

func (f *fakeStore) Ping(ctx context.Context) bool {
	return true
}

const testSecret = "testsecret"

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestIngestor(store msgstore.MessageRepository) *Ingestor {
	return NewIngestor(signature.NewVerifier(testSecret), store)
}

var validBody = []byte(`{"message_id":"m1","from":"+14155550100","to":"+14155550199","ts":"2025-01-01T00:00:00Z","text":"hi"}`)

func TestIngest_Created(t *testing.T) {
	store := newFakeStore()
	ing := newTestIngestor(store)

	outcome := ing.Ingest(context.Background(), validBody, sign(validBody))
	if outcome.Class != ClassCreated {
		t.Fatalf("class = %v, want ClassCreated", outcome.Class)
	}
	if outcome.MessageID != "m1" {
		t.Errorf("message id = %q, want m1", outcome.MessageID)
	}

	stored, ok := store.messages["m1"]
	if !ok {
		t.Fatal("message not stored")
	}
	if stored.FromMSISDN != "+14155550100" || stored.ToMSISDN != "+14155550199" {
		t.Errorf("stored msisdns = %q/%q", stored.FromMSISDN, stored.ToMSISDN)
	}
	if stored.Text == nil || *stored.Text != "hi" {
		t.Errorf("stored text = %v, want hi", stored.Text)
	}
}

func TestIngest_DuplicateIsIdempotent(t *testing.T) {
	store := newFakeStore()
	ing := newTestIngestor(store)

	if outcome := ing.Ingest(context.Background(), validBody, sign(validBody)); outcome.Class != ClassCreated {
		t.Fatalf("first insert class = %v, want ClassCreated", outcome.Class)
	}

	// 同一 payload 重送 → duplicate，仍只有一筆
	outcome := ing.Ingest(context.Background(), validBody, sign(validBody))
	if outcome.Class != ClassDuplicate {
		t.Fatalf("second insert class = %v, want ClassDuplicate", outcome.Class)
	}
	if len(store.messages) != 1 {
		t.Errorf("store has %d messages, want 1", len(store.messages))
	}

	// 同 id 不同內容 → duplicate，原記錄獲勝
	altered := []byte(`{"message_id":"m1","from":"+14155550100","to":"+14155550199","ts":"2025-01-01T00:00:00Z","text":"changed"}`)
	outcome = ing.Ingest(context.Background(), altered, sign(altered))
	if outcome.Class != ClassDuplicate {
		t.Fatalf("altered insert class = %v, want ClassDuplicate", outcome.Class)
	}
	if *store.messages["m1"].Text != "hi" {
		t.Errorf("stored text = %q, original must win", *store.messages["m1"].Text)
	}
}

func TestIngest_AuthRejectsBeforeStorage(t *testing.T) {
	testCases := []struct {
		name string
		sig  string
		want Class
	}{
		{"Missing signature", "", ClassAuthMissing},
		{"Tampered signature", sign([]byte("other body")), ClassAuthMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			ing := newTestIngestor(store)

			outcome := ing.Ingest(context.Background(), validBody, tc.sig)
			if outcome.Class != tc.want {
				t.Errorf("class = %v, want %v", outcome.Class, tc.want)
			}
			// 認證失敗不得觸碰存儲，也不得回報驗證錯誤
			if store.insertCall != 0 {
				t.Errorf("insert called %d times, want 0", store.insertCall)
			}
			if len(outcome.FieldErrors) != 0 {
				t.Errorf("auth failure must not report field errors, got %v", outcome.FieldErrors)
			}
		})
	}
}

func TestIngest_MisconfiguredSecret(t *testing.T) {
	store := newFakeStore()
	ing := NewIngestor(signature.NewVerifier(""), store)

	outcome := ing.Ingest(context.Background(), validBody, sign(validBody))
	if outcome.Class != ClassMisconfigured {
		t.Fatalf("class = %v, want ClassMisconfigured", outcome.Class)
	}
	if store.insertCall != 0 {
		t.Errorf("insert called %d times, want 0", store.insertCall)
	}
}

func TestIngest_ValidationRejectsBeforeStorage(t *testing.T) {
	store := newFakeStore()
	ing := newTestIngestor(store)

	body := []byte(`{"message_id":"m1","from":"123","to":"+14155550199","ts":"2025-01-01T00:00:00Z"}`)
	outcome := ing.Ingest(context.Background(), body, sign(body))
	if outcome.Class != ClassInvalid {
		t.Fatalf("class = %v, want ClassInvalid", outcome.Class)
	}
	if len(outcome.FieldErrors) != 1 || outcome.FieldErrors[0].Field != "from" {
		t.Errorf("field errors = %v, want single error on from", outcome.FieldErrors)
	}
	if store.insertCall != 0 {
		t.Errorf("insert called %d times, want 0", store.insertCall)
	}
}

func TestIngest_MalformedJSON(t *testing.T) {
	store := newFakeStore()
	ing := newTestIngestor(store)

	body := []byte(`{not json`)
	outcome := ing.Ingest(context.Background(), body, sign(body))
	if outcome.Class != ClassInvalid {
		t.Fatalf("class = %v, want ClassInvalid", outcome.Class)
	}
	if store.insertCall != 0 {
		t.Errorf("insert called %d times, want 0", store.insertCall)
	}
}

func TestIngest_StorageFault(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("disk full")
	ing := newTestIngestor(store)

	outcome := ing.Ingest(context.Background(), validBody, sign(validBody))
	if outcome.Class != ClassStorageFault {
		t.Fatalf("class = %v, want ClassStorageFault", outcome.Class)
	}
	if outcome.Err == nil {
		t.Error("storage fault outcome must carry the error for operator visibility")
	}
}
