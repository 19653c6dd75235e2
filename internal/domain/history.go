package domain

import (
	"encoding/json"
	"time"
)

// HistoryEntry records one completed generation. Entries are append-only.
type HistoryEntry struct {
	ImageURL  string
	VideoURL  string
	Prompt    string
	CreatedAt time.Time
}

// historyWire keeps the persisted layout compatible with the browser history:
// {"image", "video", "prompt", "timestamp"} with the timestamp in Unix milliseconds.
type historyWire struct {
	Image     string `json:"image"`
	Video     string `json:"video"`
	Prompt    string `json:"prompt"`
	Timestamp int64  `json:"timestamp"`
}

func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyWire{
		Image:     e.ImageURL,
		Video:     e.VideoURL,
		Prompt:    e.Prompt,
		Timestamp: e.CreatedAt.UnixMilli(),
	})
}

func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var w historyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.ImageURL = w.Image
	e.VideoURL = w.Video
	e.Prompt = w.Prompt
	e.CreatedAt = time.UnixMilli(w.Timestamp).UTC()
	return nil
}
