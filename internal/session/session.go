// Package session holds the per-process state shared by the transport client
// and the presentation surfaces: the API credential and the history store.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"lorastudio/internal/domain"
	"lorastudio/internal/history"
	"lorastudio/internal/infra"
	"lorastudio/internal/infra/credentials"
	"lorastudio/internal/storage"
)

// Session is loaded once at process start and saved on explicit request.
// The in-memory key is what the transport client reads on every call.
type Session struct {
	creds   domain.CredentialRepository
	history domain.HistoryRepository
	envKey  string
	closer  func() error

	mu     sync.RWMutex
	apiKey string
}

// New builds a session over the given repositories. envKey, when set, takes
// precedence over the stored credential at Load time.
func New(creds domain.CredentialRepository, hist domain.HistoryRepository, envKey string) *Session {
	return &Session{creds: creds, history: hist, envKey: strings.TrimSpace(envKey)}
}

// Open wires the local storage, credential store and configured history
// backend from cfg, then loads the session.
func Open(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*Session, error) {
	kv, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	var (
		hist   domain.HistoryRepository
		closer func() error
	)
	switch cfg.HistoryBackend {
	case infra.HistoryBackendSQLite:
		var db *sql.DB
		db, err = infra.NewSQLiteDB(ctx, filepath.Join(cfg.DataDir, "history.db"))
		if err != nil {
			return nil, err
		}
		store, err := history.NewSQLiteStore(ctx, infra.NewSQLRunner(db, logger))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		hist, closer = store, db.Close
	default:
		hist = history.NewFileStore(kv)
	}

	s := New(credentials.NewStore(kv), hist, cfg.MagicAPIKey)
	s.closer = closer
	if err := s.Load(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	logger.Debug().
		Str("data_dir", kv.BasePath()).
		Str("history_backend", cfg.HistoryBackend).
		Bool("api_key", s.HasAPIKey()).
		Msg("session: loaded")
	return s, nil
}

// Load reads the credential into memory.
func (s *Session) Load(ctx context.Context) error {
	key := s.envKey
	if key == "" {
		stored, err := s.creds.APIKey(ctx)
		if err != nil {
			return fmt.Errorf("session: load api key: %w", err)
		}
		key = stored
	}
	s.mu.Lock()
	s.apiKey = key
	s.mu.Unlock()
	return nil
}

// APIKey returns the in-memory credential.
func (s *Session) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

func (s *Session) HasAPIKey() bool {
	return s.APIKey() != ""
}

// SetAPIKey replaces the in-memory credential; call Save to persist it.
func (s *Session) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrMissingAPIKey
	}
	s.mu.Lock()
	s.apiKey = key
	s.mu.Unlock()
	return nil
}

// Save persists the in-memory credential.
func (s *Session) Save(ctx context.Context) error {
	key := s.APIKey()
	if key == "" {
		return domain.ErrMissingAPIKey
	}
	if err := s.creds.SetAPIKey(ctx, key); err != nil {
		return fmt.Errorf("session: save api key: %w", err)
	}
	return nil
}

// ClearAPIKey forgets the credential both in memory and on disk.
func (s *Session) ClearAPIKey(ctx context.Context) error {
	s.mu.Lock()
	s.apiKey = ""
	s.mu.Unlock()
	if err := s.creds.ClearAPIKey(ctx); err != nil {
		return fmt.Errorf("session: clear api key: %w", err)
	}
	return nil
}

// History returns the history store bound to this session.
func (s *Session) History() domain.HistoryRepository {
	return s.history
}

// Close releases the history backend.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
