package session

import (
	"context"
	"errors"
	"testing"

	"lorastudio/internal/domain"
	"lorastudio/internal/infra"
)

type memCreds struct {
	key     string
	saved   int
	cleared int
}

func (m *memCreds) APIKey(ctx context.Context) (string, error) { return m.key, nil }

func (m *memCreds) SetAPIKey(ctx context.Context, key string) error {
	m.key = key
	m.saved++
	return nil
}

func (m *memCreds) ClearAPIKey(ctx context.Context) error {
	m.key = ""
	m.cleared++
	return nil
}

func TestLoadPrefersEnvironmentKey(t *testing.T) {
	s := New(&memCreds{key: "stored"}, nil, " from-env ")
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.APIKey(); got != "from-env" {
		t.Fatalf("APIKey = %q, want from-env", got)
	}
}

func TestLoadFallsBackToStoredKey(t *testing.T) {
	s := New(&memCreds{key: "stored"}, nil, "")
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := s.APIKey(); got != "stored" {
		t.Fatalf("APIKey = %q, want stored", got)
	}
}

func TestSetSaveClear(t *testing.T) {
	creds := &memCreds{}
	s := New(creds, nil, "")
	ctx := context.Background()

	if err := s.Save(ctx); !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("Save without key = %v, want ErrMissingAPIKey", err)
	}
	if err := s.SetAPIKey("   "); !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("SetAPIKey(blank) = %v", err)
	}
	if err := s.SetAPIKey("k-1"); err != nil {
		t.Fatalf("SetAPIKey: %v", err)
	}
	if creds.saved != 0 {
		t.Fatal("SetAPIKey must not persist before Save")
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if creds.key != "k-1" || creds.saved != 1 {
		t.Fatalf("creds = %+v", creds)
	}
	if err := s.ClearAPIKey(ctx); err != nil {
		t.Fatalf("ClearAPIKey: %v", err)
	}
	if s.HasAPIKey() || creds.cleared != 1 {
		t.Fatalf("key not cleared: %q %+v", s.APIKey(), creds)
	}
}

func TestOpenWiresBackends(t *testing.T) {
	for _, backend := range []string{infra.HistoryBackendFile, infra.HistoryBackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := &infra.Config{DataDir: t.TempDir(), HistoryBackend: backend}
			ctx := context.Background()
			s, err := Open(ctx, cfg, *infra.DiscardLogger())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()

			if err := s.SetAPIKey("persisted"); err != nil {
				t.Fatalf("SetAPIKey: %v", err)
			}
			if err := s.Save(ctx); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := s.History().Append(ctx, domain.HistoryEntry{VideoURL: "https://x/v.mp4"}); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			reopened, err := Open(ctx, cfg, *infra.DiscardLogger())
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer reopened.Close()
			if reopened.APIKey() != "persisted" {
				t.Fatalf("APIKey after reopen = %q", reopened.APIKey())
			}
			entries, err := reopened.History().List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(entries) != 1 || entries[0].VideoURL != "https://x/v.mp4" {
				t.Fatalf("entries = %+v", entries)
			}
		})
	}
}
