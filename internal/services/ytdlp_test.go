package services

import (
	"testing"

	"github.com/lrstanley/go-ytdlp"
)

type recordingHooks struct {
	downloaded []int64
	total      []int64
	completed  int
	lines      []string
}

func (h *recordingHooks) Progress(downloadedBytes, totalBytes int64) {
	h.downloaded = append(h.downloaded, downloadedBytes)
	h.total = append(h.total, totalBytes)
}

func (h *recordingHooks) Completed() { h.completed++ }

func (h *recordingHooks) Diagnostic(line string) { h.lines = append(h.lines, line) }

func TestDispatchProgress(t *testing.T) {
	hooks := &recordingHooks{}

	dispatchProgress(ytdlp.ProgressUpdate{
		Status:          ytdlp.ProgressStatusDownloading,
		DownloadedBytes: 512,
		TotalBytes:      2048,
	}, hooks)

	if len(hooks.downloaded) != 1 || hooks.downloaded[0] != 512 || hooks.total[0] != 2048 {
		t.Errorf("byte counts not forwarded: %+v", hooks)
	}

	dispatchProgress(ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusFinished}, hooks)
	if hooks.completed != 1 {
		t.Errorf("expected one completion, got %d", hooks.completed)
	}

	// Other states carry no byte counts and are dropped.
	dispatchProgress(ytdlp.ProgressUpdate{}, hooks)
	if len(hooks.downloaded) != 1 || hooks.completed != 1 {
		t.Errorf("unexpected dispatch for unknown state: %+v", hooks)
	}
}
