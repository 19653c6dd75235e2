package handlers

import (
	"net/http"
	"strings"

	"lorastudio/internal/history"
)

type historyItem struct {
	Image     string `json:"image"`
	Video     string `json:"video"`
	Prompt    string `json:"prompt"`
	Timestamp int64  `json:"timestamp"`
	Age       string `json:"age"`
}

// HistoryList returns the stored generations, oldest first unless
// order=desc is given.
func (a *App) HistoryList(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Session.History().List(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("history: list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	if strings.EqualFold(r.URL.Query().Get("order"), "desc") {
		entries = history.Reverse(entries)
	}
	now := a.now()
	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{
			Image:     e.ImageURL,
			Video:     e.VideoURL,
			Prompt:    e.Prompt,
			Timestamp: e.CreatedAt.UnixMilli(),
			Age:       history.TimeAgo(now, e.CreatedAt),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
