package credentials

import (
	"context"
	"errors"
	"strings"

	"lorastudio/internal/domain"
	"lorastudio/internal/storage"
)

// KeyMagicAPI is the local storage key holding the MagicAPI credential.
const KeyMagicAPI = "magic_api_key"

// KV is the local key/value storage the credential lives in.
type KV interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// APIKey returns the stored key, or "" when none was saved.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	raw, err := s.kv.Read(ctx, KeyMagicAPI)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrMissingAPIKey
	}
	return s.kv.Write(ctx, KeyMagicAPI, []byte(key))
}

func (s *Store) ClearAPIKey(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyMagicAPI)
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", len(key)-4) + key[len(key)-4:]
}

var _ domain.CredentialRepository = (*Store)(nil)
