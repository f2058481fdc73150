package tasks

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/shared"
	"github.com/desertthunder/ytmd/internal/status"
	tu "github.com/desertthunder/ytmd/internal/testing"
)

func threeSongs() []models.Song {
	return []models.Song{
		{ID: "vid-a", Title: "Alpha", Uploader: "Artist A", Order: 0},
		{ID: "vid-b", Title: "Beta", Uploader: "Artist B", Order: 1},
		{ID: "vid-c", Title: "Gamma", Uploader: "Artist C", Order: 2},
	}
}

func newTestEngine(t *testing.T, dl *tu.ScriptedDownloader, history HistoryRecorder) (*BatchEngine, *status.Tracker, *status.LogBuffer, string) {
	t.Helper()

	tracker := status.NewTracker()
	logs := status.NewLogBuffer()
	dir := t.TempDir()

	engine := NewBatchEngine(EngineOpts{
		Downloader: dl,
		Tracker:    tracker,
		Logs:       logs,
		History:    history,
		BaseDir:    dir,
	})

	return engine, tracker, logs, dir
}

func TestSubmitRejectsEmptySelection(t *testing.T) {
	engine, tracker, _, _ := newTestEngine(t, &tu.ScriptedDownloader{}, nil)

	if err := engine.Submit(nil, "Mix", models.FormatMP3); !errors.Is(err, shared.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}

	if got := tracker.Snapshot().Status; got != models.BatchIdle {
		t.Errorf("expected table untouched, status = %s", got)
	}
}

func TestBatchMixedOutcome(t *testing.T) {
	dl := &tu.ScriptedDownloader{Scripts: map[string]tu.ItemScript{
		"vid-b": {Err: errors.New("network unreachable")},
	}}
	history := &tu.RecordedHistory{}
	engine, tracker, logs, dir := newTestEngine(t, dl, history)

	if err := engine.Submit(threeSongs(), "Road Mix", models.FormatMP3); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	engine.Wait()

	snap := tracker.Snapshot()
	if snap.Status != models.BatchFinished {
		t.Fatalf("expected finished batch, got %s", snap.Status)
	}

	if snap.DownloadedItems != 2 || snap.FailedItems != 1 {
		t.Errorf("expected 2 downloaded / 1 failed, got %d / %d", snap.DownloadedItems, snap.FailedItems)
	}

	want := []models.ItemState{models.ItemFinished, models.ItemError, models.ItemFinished}
	for i, res := range snap.Results {
		if res.Status != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], res.Status)
		}
	}

	if msg := snap.Results[1].ErrorMessage; !strings.Contains(msg, "network unreachable") {
		t.Errorf("expected failure message on item, got %q", msg)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Road Mix", batchLogName))
	if err != nil {
		t.Fatalf("batch log missing: %v", err)
	}

	if got := string(data); got != "Alpha\nGamma\n" && got != "Gamma\nAlpha\n" {
		t.Errorf("unexpected batch log contents: %q", got)
	}

	if entries := history.Entries(); len(entries) != 2 {
		t.Errorf("expected two history rows, got %d", len(entries))
	}

	failures := 0

	for _, line := range logs.Drain() {
		if strings.Contains(line, "Beta") {
			failures++
		}
	}

	if failures != 1 {
		t.Errorf("expected one failure line for Beta, got %d", failures)
	}
}

func TestBatchFolderCreationFails(t *testing.T) {
	dl := &tu.ScriptedDownloader{}
	engine, tracker, _, dir := newTestEngine(t, dl, nil)

	// A plain file where the batch folder should go makes MkdirAll fail.
	blocker := filepath.Join(dir, "Blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := engine.Submit(threeSongs(), "Blocked", models.FormatMP3); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	engine.Wait()

	snap := tracker.Snapshot()
	if snap.Status != models.BatchError {
		t.Fatalf("expected batch error, got %s", snap.Status)
	}

	if snap.ErrorMessage == "" {
		t.Error("expected a batch-level error message")
	}

	for _, res := range snap.Results {
		if res.Status != models.ItemPending {
			t.Errorf("item %s: expected pending, got %s", res.ID, res.Status)
		}
	}

	if got := len(dl.Requests()); got != 0 {
		t.Errorf("expected no downloads after setup failure, got %d", got)
	}
}

func TestDuplicateCompletionCountedOnce(t *testing.T) {
	dl := &tu.ScriptedDownloader{Scripts: map[string]tu.ItemScript{
		"vid-a": {CompleteTwice: true},
	}}
	engine, tracker, _, dir := newTestEngine(t, dl, nil)

	songs := threeSongs()[:1]
	if err := engine.Submit(songs, "Singles", models.FormatMP3); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	engine.Wait()

	snap := tracker.Snapshot()
	if snap.DownloadedItems != 1 {
		t.Errorf("expected one download counted, got %d", snap.DownloadedItems)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Singles", batchLogName))
	if err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(string(data), "Alpha"); got != 1 {
		t.Errorf("expected one ledger line, got %d", got)
	}
}

func TestProgressLastWriteWinsOnFailure(t *testing.T) {
	dl := &tu.ScriptedDownloader{Scripts: map[string]tu.ItemScript{
		"vid-a": {
			Progress: [][2]int64{{80, 100}, {35, 100}, {50, 0}},
			Err:      errors.New("fragment timeout"),
		},
	}}
	engine, tracker, _, _ := newTestEngine(t, dl, nil)

	if err := engine.Submit(threeSongs()[:1], "Retry", models.FormatMP3); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	engine.Wait()

	res := tracker.Snapshot().Results[0]
	if res.Status != models.ItemError {
		t.Fatalf("expected error state, got %s", res.Status)
	}

	// The zero-total update is dropped; the table holds the last real value.
	if res.Progress != 35 {
		t.Errorf("expected progress 35, got %v", res.Progress)
	}
}

func TestDiagnosticLinesFiltered(t *testing.T) {
	dl := &tu.ScriptedDownloader{Scripts: map[string]tu.ItemScript{
		"vid-a": {Lines: []string{
			"[download] Destination: 01 - Artist A - Alpha.webm",
			"[ExtractAudio] converting to mp3",
			"   ",
		}},
	}}
	engine, _, logs, _ := newTestEngine(t, dl, nil)

	if err := engine.Submit(threeSongs()[:1], "Mix", models.FormatMP3); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	engine.Wait()

	lines := logs.Drain()
	if len(lines) != 1 || lines[0] != "[ExtractAudio] converting to mp3" {
		t.Errorf("unexpected log lines: %#v", lines)
	}
}

func TestOutputTemplatePerItem(t *testing.T) {
	dl := &tu.ScriptedDownloader{}
	engine, _, _, dir := newTestEngine(t, dl, nil)

	if err := engine.Submit(threeSongs(), "Road Mix", models.FormatMP4); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	engine.Wait()

	templates := make(map[string]string)
	for _, req := range dl.Requests() {
		templates[req.VideoID] = req.OutputTemplate

		if req.Options.Format != models.FormatMP4 {
			t.Errorf("expected mp4 options, got %s", req.Options.Format)
		}
	}

	want := filepath.Join(dir, "Road Mix", "02 - %(artist,uploader|Unknown Artist)s - %(title)s.%(ext)s")
	if got := templates["vid-b"]; got != want {
		t.Errorf("template mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestFolderNameSanitized(t *testing.T) {
	dl := &tu.ScriptedDownloader{}
	engine, _, _, dir := newTestEngine(t, dl, nil)

	if err := engine.Submit(threeSongs()[:1], `Best: Of/2024?`, models.FormatMP3); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	engine.Wait()

	if _, err := os.Stat(filepath.Join(dir, "Best Of2024")); err != nil {
		t.Errorf("expected sanitized folder: %v", err)
	}
}
