package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"lorastudio/internal/domain"
	"lorastudio/internal/infra"
	"lorastudio/internal/storage"
)

func sampleEntries(n int) []domain.HistoryEntry {
	base := time.UnixMilli(1700000000000).UTC()
	entries := make([]domain.HistoryEntry, n)
	for i := range entries {
		entries[i] = domain.HistoryEntry{
			ImageURL:  fmt.Sprintf("https://x/img-%d.png", i),
			VideoURL:  fmt.Sprintf("https://x/vid-%d.mp4", i),
			Prompt:    fmt.Sprintf("prompt %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
	}
	return entries
}

func assertSameOrder(t *testing.T, got, want []domain.HistoryEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].VideoURL != want[i].VideoURL || got[i].Prompt != want[i].Prompt || !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFileStoreInsertionOrder(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	store := NewFileStore(kv)
	ctx := context.Background()

	empty, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty history, got %d", len(empty))
	}

	want := sampleEntries(5)
	for _, e := range want {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertSameOrder(t, got, want)

	// A fresh store over the same directory sees the persisted sequence.
	reopened, err := NewFileStore(kv).List(ctx)
	if err != nil {
		t.Fatalf("List reopened: %v", err)
	}
	assertSameOrder(t, reopened, want)
}

func TestFileStoreReadsBrowserLayout(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	raw := `[{"image":"https://x/a.png","video":"https://x/a.mp4","prompt":"sea","timestamp":1700000000000}]`
	if err := kv.Write(ctx, Key, []byte(raw)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	entries, err := NewFileStore(kv).List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].VideoURL != "https://x/a.mp4" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].CreatedAt.UnixMilli() != 1700000000000 {
		t.Fatalf("CreatedAt = %v", entries[0].CreatedAt)
	}
}

func TestFileStoreCorruptValue(t *testing.T) {
	kv, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	if err := kv.Write(ctx, Key, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := NewFileStore(kv).List(ctx); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSQLiteStoreInsertionOrder(t *testing.T) {
	ctx := context.Background()
	db, err := infra.NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	runner := infra.NewSQLRunner(db, *infra.DiscardLogger())
	store, err := NewSQLiteStore(ctx, runner)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	want := sampleEntries(4)
	for _, e := range want {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertSameOrder(t, got, want)

	// Migration is idempotent.
	if _, err := NewSQLiteStore(ctx, runner); err != nil {
		t.Fatalf("second NewSQLiteStore: %v", err)
	}
}

func TestReverse(t *testing.T) {
	entries := sampleEntries(3)
	rev := Reverse(entries)
	if rev[0].Prompt != "prompt 2" || rev[2].Prompt != "prompt 0" {
		t.Fatalf("Reverse = %+v", rev)
	}
	if entries[0].Prompt != "prompt 0" {
		t.Fatal("Reverse mutated its input")
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{ago: 12 * time.Second, want: "12s ago"},
		{ago: 3*time.Minute + 10*time.Second, want: "3m ago"},
		{ago: 5*time.Hour + time.Minute, want: "5h ago"},
	}
	for _, tc := range tests {
		if got := TimeAgo(now, now.Add(-tc.ago)); got != tc.want {
			t.Fatalf("TimeAgo(%s) = %q, want %q", tc.ago, got, tc.want)
		}
	}
	old := now.Add(-72 * time.Hour)
	if got := TimeAgo(now, old); got != old.Local().Format("2006-01-02") {
		t.Fatalf("TimeAgo(old) = %q", got)
	}
}
