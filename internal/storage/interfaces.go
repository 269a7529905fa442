package storage

import (
	"context"

	"swap-ledger/internal/domain"
)

// TokenStore provides access to the token registry.
type TokenStore interface {
	// Insert adds a new token. Returns ErrDuplicateKey if name exists.
	// Registry entries are append-only: there is no update path.
	Insert(ctx context.Context, t *domain.Token) error

	// GetByName retrieves a token by symbol. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.Token, error)

	// List retrieves all registered tokens, ordered by name ASC.
	List(ctx context.Context) ([]*domain.Token, error)
}

// TransactionStore provides access to transactions storage.
type TransactionStore interface {
	// Insert adds a new transaction. Returns ErrDuplicateKey if a record
	// with the same (timestamp, token) already exists. The check-then-write
	// must be atomic so the uniqueness invariant holds under concurrent
	// batch uploads.
	Insert(ctx context.Context, tx *domain.Transaction) error

	// List retrieves all transactions, ordered by timestamp ASC.
	List(ctx context.Context) ([]*domain.Transaction, error)

	// GetByToken retrieves all transactions for a token, ordered by timestamp ASC.
	GetByToken(ctx context.Context, token string) ([]*domain.Transaction, error)
}

// ExtractionLogStore records one audit row per processed screenshot batch.
type ExtractionLogStore interface {
	// Insert appends an extraction record. Never updates.
	Insert(ctx context.Context, rec *domain.ExtractionRecord) error

	// GetRecent retrieves the most recent records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.ExtractionRecord, error)
}
