package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/storage"
)

func TestExtractionLogStore_InsertAndGetRecent(t *testing.T) {
	store := NewExtractionLogStore()
	ctx := context.Background()
	base := time.Date(2024, 5, 12, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		rec := &domain.ExtractionRecord{
			BatchID:   fmt.Sprintf("batch-%d", i),
			Status:    domain.ExtractionStatusSuccess,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	records, err := store.GetRecent(ctx, 3)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].BatchID != "batch-4" {
		t.Errorf("Newest record should come first, got %s", records[0].BatchID)
	}
}

func TestExtractionLogStore_InvalidInput(t *testing.T) {
	store := NewExtractionLogStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.ExtractionRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty batch id, got %v", err)
	}
}
