package models

import "time"

// ItemState is the lifecycle state of a single song within a batch.
type ItemState string

const (
	ItemPending     ItemState = "pending"
	ItemDownloading ItemState = "downloading"
	ItemFinished    ItemState = "finished"
	ItemError       ItemState = "error"
)

// Terminal reports whether no further state transitions are permitted.
func (s ItemState) Terminal() bool {
	return s == ItemFinished || s == ItemError
}

// BatchState is the lifecycle state of the active download batch.
type BatchState string

const (
	// BatchIdle is the zero state before any batch has been submitted.
	BatchIdle        BatchState = "idle"
	BatchDownloading BatchState = "downloading"
	BatchFinished    BatchState = "finished"
	BatchError       BatchState = "error"
)

// Format selects the download pipeline for a batch.
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatMP4 Format = "mp4"
)

// ParseFormat validates a client-supplied format string.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatMP3, FormatMP4:
		return Format(s), true
	default:
		return "", false
	}
}

// Song is an immutable descriptor for one playlist entry. Created by playlist
// resolution, consumed by the orchestrator and workers, never mutated.
type Song struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Uploader  string `json:"uploader,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Order     int    `json:"order"`
}

// ItemStatus is the mutable per-song record within the active batch. Exactly
// one worker owns the mutation rights for a given id; all access goes through
// the status tracker's lock.
type ItemStatus struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Uploader     string    `json:"uploader,omitempty"`
	Status       ItemState `json:"status"`
	Progress     float64   `json:"progress"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Order        int       `json:"order"`
}

// BatchStatus is a point-in-time snapshot of the active batch. Results are
// sorted ascending by order for client consumption.
type BatchStatus struct {
	TotalItems      int          `json:"total_items"`
	DownloadedItems int          `json:"downloaded_items"`
	FailedItems     int          `json:"failed_items"`
	Status          BatchState   `json:"status"`
	ErrorMessage    string       `json:"error_message,omitempty"`
	Results         []ItemStatus `json:"results"`
}

// HistoryEntry is one row of the completed-downloads ledger.
type HistoryEntry struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	Uploader  string    `json:"uploader,omitempty"`
	Format    Format    `json:"format"`
	Path      string    `json:"path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
