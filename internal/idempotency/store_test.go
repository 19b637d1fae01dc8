package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestCreateIfNotExists_Get_MarkDone_MarkFailed(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "idempotency-table", 48*time.Hour)

	ctx := context.Background()
	key := "test-key-1"
	itemID := "item-123"

	created, err := s.CreateIfNotExists(ctx, key, itemID)
	if err != nil {
		t.Fatalf("CreateIfNotExists error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}

	// second create should return created=false (exists)
	created2, err := s.CreateIfNotExists(ctx, key, "item-456")
	if err != nil {
		t.Fatalf("second CreateIfNotExists error: %v", err)
	}
	if created2 {
		t.Fatalf("expected created=false on duplicate create")
	}

	rec, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected record, got nil")
	}
	if rec.Status != StatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", rec.Status)
	}
	if rec.ItemID != itemID {
		t.Fatalf("item id mismatch: %s", rec.ItemID)
	}

	err = s.MarkDone(ctx, key, "{\"id\":\"item-123\"}", 201)
	if err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}

	// Read raw item from mock to assert updated fields
	item := mock.table[key]
	if st, ok := item["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusDone {
		t.Fatalf("status not updated to DONE, got %+v", item["status"])
	}
	if rb, ok := item["response_body"].(*types.AttributeValueMemberS); !ok || rb.Value != "{\"id\":\"item-123\"}" {
		t.Fatalf("response_body not set correctly: %+v", item["response_body"])
	}

	rec, err = s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after MarkDone error: %v", err)
	}
	if rec.ResponseStatus != 201 {
		t.Fatalf("expected response status 201, got %d", rec.ResponseStatus)
	}

	// MarkFailed (should overwrite status)
	err = s.MarkFailed(ctx, key, "failed-reason")
	if err != nil {
		t.Fatalf("MarkFailed error: %v", err)
	}
	item2 := mock.table[key]
	if st, ok := item2["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusFailed {
		t.Fatalf("status not updated to FAILED, got %+v", item2["status"])
	}
	if n, ok := item2["note"].(*types.AttributeValueMemberS); !ok || n.Value != "failed-reason" {
		t.Fatalf("note not set, got %+v", item2["note"])
	}
}

func TestGet_Missing(t *testing.T) {
	s := NewStore(newSimpleMock(), "idempotency-table", time.Hour)

	rec, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestExpiredRecord_IsIgnoredAndReplaced(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "idempotency-table", time.Hour)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.nowFunc = func() time.Time { return start }
	if created, err := s.CreateIfNotExists(ctx, "k", "item-1"); err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}

	// two hours later the one hour window has passed
	s.nowFunc = func() time.Time { return start.Add(2 * time.Hour) }
	rec, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected expired record to be ignored, got %+v", rec)
	}

	created, err := s.CreateIfNotExists(ctx, "k", "item-2")
	if err != nil {
		t.Fatalf("re-create error: %v", err)
	}
	if !created {
		t.Fatal("expected expired key to be reusable")
	}
	rec, err = s.Get(ctx, "k")
	if err != nil || rec == nil {
		t.Fatalf("Get after re-create: rec=%v err=%v", rec, err)
	}
	if rec.ItemID != "item-2" {
		t.Fatalf("expected item-2, got %s", rec.ItemID)
	}
}

func TestAttributevalueMarshal_Unmarshal(t *testing.T) {
	// ensure our types marshal/unmarshal cleanly
	rec := Record{
		IdempotencyKey: "k1",
		Status:         StatusInProgress,
		ItemID:         "i1",
		CreatedAt:      time.Now().Round(time.Second),
		UpdatedAt:      time.Now().Round(time.Second),
		ExpiresAt:      time.Now().Add(24 * time.Hour).Unix(),
	}
	m, err := attributevalue.MarshalMap(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Record
	if err := attributevalue.UnmarshalMap(m, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.IdempotencyKey != rec.IdempotencyKey || out.ItemID != rec.ItemID {
		t.Fatalf("unmarshal mismatch")
	}
}
