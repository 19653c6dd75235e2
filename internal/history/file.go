// Package history records completed generations in insertion order.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"lorastudio/internal/domain"
	"lorastudio/internal/storage"
)

// Key is the local storage key holding the serialized history.
const Key = "history"

// KV is the local key/value storage the history lives in.
type KV interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// FileStore keeps the whole history as one JSON array under Key. Append reads
// the full sequence, appends, and writes the full sequence back; the size is
// unbounded.
type FileStore struct {
	kv KV
	mu sync.Mutex
}

func NewFileStore(kv KV) *FileStore {
	return &FileStore{kv: kv}
}

func (s *FileStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	if err := s.kv.Write(ctx, Key, raw); err != nil {
		return fmt.Errorf("history: write: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *FileStore) load(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, err := s.kv.Read(ctx, Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []domain.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("history: read: %w", err)
	}
	entries := []domain.HistoryEntry{}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("history: decode: %w", err)
	}
	return entries, nil
}

var _ domain.HistoryRepository = (*FileStore)(nil)
