package history

import (
	"fmt"
	"time"

	"lorastudio/internal/domain"
)

// Reverse returns a copy of entries, most recent first.
func Reverse(entries []domain.HistoryEntry) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// TimeAgo renders the age of t relative to now the way the history panel does.
func TimeAgo(now, t time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff/time.Second))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	default:
		return t.Local().Format("2006-01-02")
	}
}
