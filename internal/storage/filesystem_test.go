package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWriteReadDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Read(ctx, "history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read missing key = %v, want ErrNotFound", err)
	}
	if err := store.Write(ctx, "history", []byte(`[]`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Write(ctx, "history", []byte(`[1]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Read(ctx, "history")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != `[1]` {
		t.Fatalf("Read = %q, want [1]", got)
	}
	if _, err := os.Stat(filepath.Join(store.BasePath(), "history.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	if err := store.Delete(ctx, "history"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "history"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := store.Read(ctx, "history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read after delete = %v, want ErrNotFound", err)
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "magic_api_key", want: "magic_api_key"},
		{key: "/nested/../history", want: "history"},
		{key: "./a\\b", want: "a/b"},
		{key: "", wantErr: true},
		{key: "..", wantErr: true},
		{key: "../escape", wantErr: true},
	}
	for _, tc := range tests {
		got, err := sanitizeKey(tc.key)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("sanitizeKey(%q) expected error, got %q", tc.key, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("sanitizeKey(%q) error: %v", tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("sanitizeKey(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestFileStoreHonorsCanceledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Write(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Fatalf("Write with canceled ctx = %v", err)
	}
}
