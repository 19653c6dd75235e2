package domain

import "context"

// HistoryRepository persists completed generations in insertion order.
type HistoryRepository interface {
	Append(ctx context.Context, entry HistoryEntry) error
	List(ctx context.Context) ([]HistoryEntry, error)
}

// CredentialRepository persists the single API key string.
type CredentialRepository interface {
	APIKey(ctx context.Context) (string, error)
	SetAPIKey(ctx context.Context, key string) error
	ClearAPIKey(ctx context.Context) error
}
