package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
// Uniqueness on (timestamp, token) is enforced by a database constraint, so
// concurrent inserts of the same key race safely: exactly one wins and the
// rest see ErrDuplicateKey.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a new transaction. Returns ErrDuplicateKey if (timestamp, token) exists.
func (s *TransactionStore) Insert(ctx context.Context, tx *domain.Transaction) error {
	if tx == nil || tx.Token == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO transactions (timestamp, token, amount, stable_coin, total_usd)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.pool.QueryRow(ctx, query,
		tx.Timestamp,
		tx.Token,
		tx.Amount,
		tx.StableCoin,
		tx.TotalUSD,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List retrieves all transactions, ordered by timestamp ASC.
func (s *TransactionStore) List(ctx context.Context) ([]*domain.Transaction, error) {
	query := `
		SELECT id, timestamp, token, amount, stable_coin, total_usd, created_at
		FROM transactions
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByToken retrieves all transactions for a token, ordered by timestamp ASC.
func (s *TransactionStore) GetByToken(ctx context.Context, token string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, timestamp, token, amount, stable_coin, total_usd, created_at
		FROM transactions
		WHERE token = $1
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("get transactions by token: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions scans multiple rows into a slice of Transaction.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction

	for rows.Next() {
		var tx domain.Transaction

		err := rows.Scan(
			&tx.ID,
			&tx.Timestamp,
			&tx.Token,
			&tx.Amount,
			&tx.StableCoin,
			&tx.TotalUSD,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}

		txs = append(txs, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
