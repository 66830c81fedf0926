package bin

// RemovedEntry records one calendar event a session has hidden from view.
// DeletedAt is epoch milliseconds, matching what the UI displays.
type RemovedEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Kind      string `json:"kind,omitempty"`
	DeletedAt int64  `json:"deletedAt"`
}
