package clickhouse

import (
	"context"
	"fmt"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/storage"
)

// ExtractionLogStore implements storage.ExtractionLogStore using ClickHouse.
// The extraction log is an analytics-side audit trail; the Postgres stores
// remain the source of truth for tokens and transactions.
type ExtractionLogStore struct {
	conn *Conn
}

// NewExtractionLogStore creates a new ExtractionLogStore.
func NewExtractionLogStore(conn *Conn) *ExtractionLogStore {
	return &ExtractionLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ExtractionLogStore = (*ExtractionLogStore)(nil)

// Insert appends an extraction record.
func (s *ExtractionLogStore) Insert(ctx context.Context, rec *domain.ExtractionRecord) error {
	if rec == nil || rec.BatchID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO extraction_log (
			batch_id, image_sha256, status, sections, candidates, stored, failed, text_length, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.BatchID,
		rec.ImageSHA256,
		rec.Status,
		uint32(rec.Sections),
		uint32(rec.Candidates),
		uint32(rec.Stored),
		uint32(rec.Failed),
		uint32(rec.TextLength),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert extraction record: %w", err)
	}
	return nil
}

// GetRecent retrieves the most recent records, newest first.
func (s *ExtractionLogStore) GetRecent(ctx context.Context, limit int) ([]*domain.ExtractionRecord, error) {
	query := `
		SELECT batch_id, image_sha256, status, sections, candidates, stored, failed, text_length, created_at
		FROM extraction_log
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent extraction records: %w", err)
	}
	defer rows.Close()

	var records []*domain.ExtractionRecord
	for rows.Next() {
		var rec domain.ExtractionRecord
		var sections, candidates, stored, failed, textLength uint32

		err := rows.Scan(
			&rec.BatchID,
			&rec.ImageSHA256,
			&rec.Status,
			&sections,
			&candidates,
			&stored,
			&failed,
			&textLength,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan extraction record row: %w", err)
		}

		rec.Sections = int(sections)
		rec.Candidates = int(candidates)
		rec.Stored = int(stored)
		rec.Failed = int(failed)
		rec.TextLength = int(textLength)

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extraction record rows: %w", err)
	}

	return records, nil
}
