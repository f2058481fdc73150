// package testing contains shared testing utilities
package testing

import (
	"context"
	"sync"

	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/services"
)

// ItemScript describes how a [ScriptedDownloader] behaves for one video ID:
// which progress updates to emit, which diagnostic lines to surface, and
// whether the download succeeds.
type ItemScript struct {
	// Progress pairs are (downloadedBytes, totalBytes) emitted in order.
	Progress [][2]int64
	// Lines are raw engine output lines passed to the diagnostic hook.
	Lines []string
	// Err, when set, is returned after hooks fire and suppresses completion.
	Err error
	// CompleteTwice fires the completion hook a second time to exercise
	// the finish guard.
	CompleteTwice bool
}

// ScriptedDownloader is a test double for [services.Downloader] driven by
// per-ID scripts. IDs without a script complete immediately.
type ScriptedDownloader struct {
	Scripts map[string]ItemScript

	mu       sync.Mutex
	requests []services.DownloadRequest
}

func (d *ScriptedDownloader) Download(ctx context.Context, req services.DownloadRequest, hooks services.DownloadHooks) error {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()

	script := d.Scripts[req.VideoID]

	for _, p := range script.Progress {
		hooks.Progress(p[0], p[1])
	}

	for _, line := range script.Lines {
		hooks.Diagnostic(line)
	}

	if script.Err != nil {
		return script.Err
	}

	hooks.Completed()

	if script.CompleteTwice {
		hooks.Completed()
	}

	return nil
}

// Requests returns a copy of every request received so far.
func (d *ScriptedDownloader) Requests() []services.DownloadRequest {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]services.DownloadRequest, len(d.requests))
	copy(out, d.requests)

	return out
}

// MockExtractor is a test double for [services.Extractor].
type MockExtractor struct {
	Info *services.PlaylistInfo
	Err  error

	mu   sync.Mutex
	urls []string
}

func (m *MockExtractor) Resolve(ctx context.Context, url string) (*services.PlaylistInfo, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	return m.Info, nil
}

// URLs returns every URL resolved so far.
func (m *MockExtractor) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.urls))
	copy(out, m.urls)

	return out
}

// RecordedHistory is an in-memory [tasks.HistoryRecorder].
type RecordedHistory struct {
	Err error

	mu      sync.Mutex
	entries []models.HistoryEntry
}

func (r *RecordedHistory) Record(entry models.HistoryEntry) error {
	if r.Err != nil {
		return r.Err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)

	return nil
}

// Entries returns a copy of every recorded entry.
func (r *RecordedHistory) Entries() []models.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.HistoryEntry, len(r.entries))
	copy(out, r.entries)

	return out
}
