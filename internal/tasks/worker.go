package tasks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/services"
	"golang.org/x/time/rate"
)

// downloadOne runs a single item to a terminal state. Download errors are
// contained here; siblings in the pool are unaffected.
func (e *BatchEngine) downloadOne(ctx context.Context, gen string, song models.Song, folder string, opts services.FormatOptions) {
	e.tracker.MarkDownloading(gen, song.ID)

	hooks := &itemHooks{
		engine:  e,
		gen:     gen,
		song:    song,
		format:  opts.Format,
		folder:  folder,
		limiter: rate.NewLimiter(rate.Every(e.interval), 1),
	}

	req := services.DownloadRequest{
		VideoID:        song.ID,
		OutputTemplate: outputTemplate(folder, song.Order),
		Options:        opts,
	}

	if err := e.downloader.Download(ctx, req, hooks); err != nil {
		// The engine may have already reported completion before a late
		// post-processing error; the finish guard keeps the item finished.
		if e.tracker.MarkFailed(gen, song.ID, err.Error()) {
			e.logs.Pushf("[ERROR] Failed to download %s: %v", song.Title, err)
		}

		e.logger.Error("download failed", "id", song.ID, "title", song.Title, "error", err)
	}
}

// itemHooks adapts one item's engine callbacks onto the status table and the
// log channel. Every hook is generation-scoped, so a batch superseded
// mid-download mutates nothing.
type itemHooks struct {
	engine  *BatchEngine
	gen     string
	song    models.Song
	format  models.Format
	folder  string
	limiter *rate.Limiter
}

func (h *itemHooks) Progress(downloadedBytes int64, totalBytes int64) {
	if totalBytes <= 0 {
		return
	}

	if !h.limiter.Allow() {
		return
	}

	pct := float64(downloadedBytes) / float64(totalBytes) * 100

	h.engine.tracker.SetProgress(h.gen, h.song.ID, pct)
}

// Completed settles the item exactly once. File and database writes happen
// after the guard, outside the tracker lock, and are best-effort: a ledger or
// history failure is logged but never un-finishes the item.
func (h *itemHooks) Completed() {
	if !h.engine.tracker.MarkFinished(h.gen, h.song.ID) {
		return
	}

	if err := appendLine(filepath.Join(h.folder, batchLogName), h.song.Title); err != nil {
		h.engine.logs.Pushf("[ERROR] Could not write to log file: %v", err)
	}

	h.engine.recordHistory(h.song, h.format, h.folder)
}

func (h *itemHooks) Diagnostic(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, "Destination") {
		return
	}

	h.engine.logs.Push(line)
}

func (e *BatchEngine) recordHistory(song models.Song, format models.Format, folder string) {
	if e.history == nil {
		return
	}

	entry := models.HistoryEntry{
		VideoID:   song.ID,
		Title:     song.Title,
		Uploader:  song.Uploader,
		Format:    format,
		Path:      folder,
		CreatedAt: time.Now(),
	}

	if err := e.history.Record(entry); err != nil {
		e.logger.Warn("history insert failed", "id", song.ID, "error", err)
	}
}

func appendLine(path string, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return err
	}

	return nil
}
