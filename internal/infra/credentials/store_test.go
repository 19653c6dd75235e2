package credentials

import (
	"context"
	"errors"
	"testing"

	"lorastudio/internal/domain"
	"lorastudio/internal/storage"
)

type stubKV struct {
	values  map[string][]byte
	err     error
	deleted []string
}

func newStubKV() *stubKV {
	return &stubKV{values: map[string][]byte{}}
}

func (s *stubKV) Read(ctx context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (s *stubKV) Write(ctx context.Context, key string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.values[key] = append([]byte(nil), data...)
	return nil
}

func (s *stubKV) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.values, key)
	return s.err
}

func TestAPIKeyTrimsStoredValue(t *testing.T) {
	kv := newStubKV()
	kv.values[KeyMagicAPI] = []byte(" abc123 \n")
	key, err := NewStore(kv).APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey error: %v", err)
	}
	if key != "abc123" {
		t.Fatalf("expected abc123, got %q", key)
	}
}

func TestAPIKeyMissing(t *testing.T) {
	key, err := NewStore(newStubKV()).APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestAPIKeyPropagatesReadError(t *testing.T) {
	kv := newStubKV()
	kv.err = errors.New("disk gone")
	if _, err := NewStore(kv).APIKey(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
}

func TestSetAPIKey(t *testing.T) {
	kv := newStubKV()
	store := NewStore(kv)
	if err := store.SetAPIKey(context.Background(), "  secret "); err != nil {
		t.Fatalf("SetAPIKey error: %v", err)
	}
	if got := string(kv.values[KeyMagicAPI]); got != "secret" {
		t.Fatalf("stored %q, want secret", got)
	}
}

func TestSetAPIKeyEmpty(t *testing.T) {
	store := NewStore(newStubKV())
	if err := store.SetAPIKey(context.Background(), " "); !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("SetAPIKey(blank) = %v, want ErrMissingAPIKey", err)
	}
}

func TestClearAPIKey(t *testing.T) {
	kv := newStubKV()
	kv.values[KeyMagicAPI] = []byte("secret")
	if err := NewStore(kv).ClearAPIKey(context.Background()); err != nil {
		t.Fatalf("ClearAPIKey error: %v", err)
	}
	if len(kv.deleted) != 1 || kv.deleted[0] != KeyMagicAPI {
		t.Fatalf("deleted = %v", kv.deleted)
	}
}

func TestMask(t *testing.T) {
	if got := Mask(""); got != "" {
		t.Fatalf("Mask(\"\") = %q", got)
	}
	if got := Mask("abcdef1234"); got != "••••••1234" {
		t.Fatalf("Mask = %q", got)
	}
	if got := Mask("abc"); got != "•••" {
		t.Fatalf("Mask short = %q", got)
	}
}
