package status

import (
	"sort"
	"sync"

	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/shared"
)

// Tracker is the shared status table for the active download batch.
//
// All fields are guarded by mu. Counters only move forward within a
// generation; downloaded + failed never exceeds total.
type Tracker struct {
	mu         sync.Mutex
	generation string
	total      int
	downloaded int
	failed     int
	state      models.BatchState
	errMsg     string
	items      map[string]*models.ItemStatus
}

// NewTracker returns an idle tracker with no batch.
func NewTracker() *Tracker {
	return &Tracker{
		state: models.BatchIdle,
		items: make(map[string]*models.ItemStatus),
	}
}

// Reset atomically replaces the active batch with one pending record per song
// and returns the new batch's generation tag. Mutators called with an older
// tag become no-ops from this point on.
func (t *Tracker) Reset(songs []models.Song) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation = shared.GenerateID()
	t.total = len(songs)
	t.downloaded = 0
	t.failed = 0
	t.state = models.BatchDownloading
	t.errMsg = ""
	t.items = make(map[string]*models.ItemStatus, len(songs))

	for _, song := range songs {
		t.items[song.ID] = &models.ItemStatus{
			ID:        song.ID,
			Title:     song.Title,
			Uploader:  song.Uploader,
			Status:    models.ItemPending,
			Progress:  0,
			Thumbnail: song.Thumbnail,
			Order:     song.Order,
		}
	}

	return t.generation
}

// Mutate applies fn to the record for id while holding the table lock. It is a
// no-op when the generation is stale or the id is absent, which tolerates late
// events arriving after a reset. fn must not block or perform I/O.
func (t *Tracker) Mutate(gen, id string, fn func(*models.ItemStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		return
	}
	if item, ok := t.items[id]; ok {
		fn(item)
	}
}

// MarkDownloading transitions the item out of pending unless it is already
// terminal.
func (t *Tracker) MarkDownloading(gen, id string) {
	t.Mutate(gen, id, func(item *models.ItemStatus) {
		if !item.Status.Terminal() {
			item.Status = models.ItemDownloading
		}
	})
}

// SetProgress records a progress percentage for the item. Writes are
// last-write-wins: a late callback with a smaller byte count may visibly lower
// the value. Terminal items are left untouched.
func (t *Tracker) SetProgress(gen, id string, pct float64) {
	t.Mutate(gen, id, func(item *models.ItemStatus) {
		if !item.Status.Terminal() {
			item.Progress = pct
		}
	})
}

// MarkFinished performs the idempotent finish transition: the first terminal
// write wins, the downloaded counter moves exactly once per item, and the
// return value tells the caller whether this call won (and should run its
// outside-the-lock side effects).
func (t *Tracker) MarkFinished(gen, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		return false
	}
	item, ok := t.items[id]
	if !ok || item.Status.Terminal() {
		return false
	}

	item.Status = models.ItemFinished
	item.Progress = 100.0
	t.downloaded++
	return true
}

// MarkFailed records a per-item error unless the item already reached a
// terminal state, incrementing the failed counter exactly once per item.
func (t *Tracker) MarkFailed(gen, id, msg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		return false
	}
	item, ok := t.items[id]
	if !ok || item.Status.Terminal() {
		return false
	}

	item.Status = models.ItemError
	item.ErrorMessage = msg
	t.failed++
	return true
}

// FailBatch marks the whole batch as failed. Used only for setup-phase
// failures such as folder creation; per-item errors never escalate here.
func (t *Tracker) FailBatch(gen, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation {
		return
	}
	t.state = models.BatchError
	t.errMsg = msg
}

// FinishBatch marks the batch finished once every worker has returned. A batch
// already failed during setup keeps its error state.
func (t *Tracker) FinishBatch(gen string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.generation || t.state != models.BatchDownloading {
		return
	}
	t.state = models.BatchFinished
}

// Snapshot returns a deep, consistent copy of the batch with results sorted
// ascending by order. The ordering is recomputed on every call; the underlying
// table is an unordered map.
func (t *Tracker) Snapshot() models.BatchStatus {
	t.mu.Lock()
	out := models.BatchStatus{
		TotalItems:      t.total,
		DownloadedItems: t.downloaded,
		FailedItems:     t.failed,
		Status:          t.state,
		ErrorMessage:    t.errMsg,
		Results:         make([]models.ItemStatus, 0, len(t.items)),
	}
	for _, item := range t.items {
		out.Results = append(out.Results, *item)
	}
	t.mu.Unlock()

	sort.Slice(out.Results, func(i, j int) bool {
		return out.Results[i].Order < out.Results[j].Order
	})
	return out
}
