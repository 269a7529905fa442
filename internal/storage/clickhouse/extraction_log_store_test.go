package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/storage"
)

func TestExtractionLogStore_InsertAndGetRecent(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewExtractionLogStore(conn)
	base := time.Date(2024, 5, 12, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := &domain.ExtractionRecord{
			BatchID:     fmt.Sprintf("batch-%d", i),
			ImageSHA256: fmt.Sprintf("%064d", i),
			Status:      domain.ExtractionStatusSuccess,
			Sections:    2,
			Candidates:  2,
			Stored:      1,
			Failed:      1,
			TextLength:  512,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Insert(ctx, rec))
	}

	records, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "batch-2", records[0].BatchID)
	assert.Equal(t, "batch-1", records[1].BatchID)
	assert.Equal(t, 2, records[0].Sections)
	assert.Equal(t, 1, records[0].Stored)
	assert.Equal(t, 1, records[0].Failed)
	assert.Equal(t, 512, records[0].TextLength)
}

func TestExtractionLogStore_InvalidInput(t *testing.T) {
	store := NewExtractionLogStore(nil)
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &domain.ExtractionRecord{}), storage.ErrInvalidInput)
}
