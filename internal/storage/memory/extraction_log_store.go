package memory

import (
	"context"
	"sort"
	"sync"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/storage"
)

// ExtractionLogStore is an in-memory implementation of storage.ExtractionLogStore.
type ExtractionLogStore struct {
	mu   sync.RWMutex
	data []*domain.ExtractionRecord
}

// NewExtractionLogStore creates a new in-memory extraction log store.
func NewExtractionLogStore() *ExtractionLogStore {
	return &ExtractionLogStore{}
}

// Insert appends an extraction record.
func (s *ExtractionLogStore) Insert(_ context.Context, rec *domain.ExtractionRecord) error {
	if rec == nil || rec.BatchID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recCopy := *rec
	s.data = append(s.data, &recCopy)
	return nil
}

// GetRecent retrieves the most recent records, newest first.
func (s *ExtractionLogStore) GetRecent(_ context.Context, limit int) ([]*domain.ExtractionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ExtractionRecord, 0, len(s.data))
	for _, rec := range s.data {
		recCopy := *rec
		result = append(result, &recCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ storage.ExtractionLogStore = (*ExtractionLogStore)(nil)
