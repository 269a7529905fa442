package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
// It enforces the same (timestamp, token) uniqueness as the Postgres schema,
// with the check-then-write done under one lock so concurrent inserts of the
// same key cannot both succeed.
type TransactionStore struct {
	mu     sync.RWMutex
	data   map[string]*domain.Transaction // keyed by timestamp|token
	nextID int64
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

// transactionKey generates the uniqueness key for a transaction.
func transactionKey(ts time.Time, token string) string {
	return fmt.Sprintf("%d|%s", ts.Unix(), token)
}

// Insert adds a new transaction. Returns ErrDuplicateKey if (timestamp, token) exists.
func (s *TransactionStore) Insert(_ context.Context, tx *domain.Transaction) error {
	if tx == nil || tx.Token == "" {
		return storage.ErrInvalidInput
	}

	key := transactionKey(tx.Timestamp, tx.Token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	s.nextID++
	tx.ID = s.nextID
	tx.CreatedAt = time.Now().UTC()

	txCopy := *tx
	s.data[key] = &txCopy
	return nil
}

// List retrieves all transactions, ordered by timestamp ASC.
func (s *TransactionStore) List(_ context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(s.data))
	for _, tx := range s.data {
		txCopy := *tx
		result = append(result, &txCopy)
	}

	sortTransactions(result)
	return result, nil
}

// GetByToken retrieves all transactions for a token, ordered by timestamp ASC.
func (s *TransactionStore) GetByToken(_ context.Context, token string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, tx := range s.data {
		if tx.Token == token {
			txCopy := *tx
			result = append(result, &txCopy)
		}
	}

	sortTransactions(result)
	return result, nil
}

func sortTransactions(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].Timestamp.Before(txs[j].Timestamp)
		}
		return txs[i].ID < txs[j].ID
	})
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
