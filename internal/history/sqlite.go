package history

import (
	"context"
	"fmt"
	"time"

	"lorastudio/internal/domain"
	"lorastudio/internal/infra"
	"lorastudio/internal/sqlinline"
)

// SQLiteStore keeps history rows in a local SQLite file. Rows are only ever
// inserted; List returns them by rowid.
type SQLiteStore struct {
	sql infra.SQLExecutor
}

// NewSQLiteStore ensures the schema exists and returns the store.
func NewSQLiteStore(ctx context.Context, sql infra.SQLExecutor) (*SQLiteStore, error) {
	if _, err := sql.ExecContext(ctx, sqlinline.QCreateHistoryTable); err != nil {
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &SQLiteStore{sql: sql}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := s.sql.ExecContext(ctx, sqlinline.QInsertHistoryEntry,
		entry.ImageURL,
		entry.VideoURL,
		entry.Prompt,
		entry.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := s.sql.QueryContext(ctx, sqlinline.QSelectHistory)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var entry domain.HistoryEntry
		var createdAt int64
		if err := rows.Scan(&entry.ImageURL, &entry.VideoURL, &entry.Prompt, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		entry.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return entries, nil
}

var _ domain.HistoryRepository = (*SQLiteStore)(nil)
