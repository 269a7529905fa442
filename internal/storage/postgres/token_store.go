package postgres

import (
	"context"
	"fmt"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a new token. Returns ErrDuplicateKey if name exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	if t == nil || t.Name == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO tokens (name, is_stable) VALUES ($1, $2)`

	_, err := s.pool.Exec(ctx, query, t.Name, t.IsStable)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByName retrieves a token by symbol. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByName(ctx context.Context, name string) (*domain.Token, error) {
	query := `SELECT name, is_stable FROM tokens WHERE name = $1`

	var t domain.Token
	err := s.pool.QueryRow(ctx, query, name).Scan(&t.Name, &t.IsStable)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by name: %w", err)
	}
	return &t, nil
}

// List retrieves all registered tokens, ordered by name ASC.
func (s *TokenStore) List(ctx context.Context) ([]*domain.Token, error) {
	query := `SELECT name, is_stable FROM tokens ORDER BY name ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.Token
	for rows.Next() {
		var t domain.Token
		if err := rows.Scan(&t.Name, &t.IsStable); err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		tokens = append(tokens, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}

	return tokens, nil
}
