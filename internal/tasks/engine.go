package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/services"
	"github.com/desertthunder/ytmd/internal/shared"
	"github.com/desertthunder/ytmd/internal/status"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWidth   = 4
	defaultBitrate = "320"

	// batchLogName is the per-folder ledger of completed titles.
	batchLogName = "downloaded.txt"

	unknownPlaylist = "Unknown Playlist"
)

// HistoryRecorder persists completed downloads. Implementations must be safe
// for concurrent use; a nil recorder disables history entirely.
type HistoryRecorder interface {
	Record(entry models.HistoryEntry) error
}

// EngineOpts carries the collaborators and tuning knobs for a [BatchEngine].
type EngineOpts struct {
	Downloader services.Downloader
	Tracker    *status.Tracker
	Logs       *status.LogBuffer
	History    HistoryRecorder
	Logger     *log.Logger

	// BaseDir is the root under which per-batch folders are created.
	BaseDir string
	// Width caps the number of concurrently downloading items.
	Width int
	// AudioBitrate is the kbit/s target for mp3 transcodes.
	AudioBitrate string
	// ProgressInterval throttles per-item progress writes to the status
	// table. Zero disables throttling.
	ProgressInterval time.Duration
}

// BatchEngine orchestrates download batches against a shared status tracker.
type BatchEngine struct {
	downloader services.Downloader
	tracker    *status.Tracker
	logs       *status.LogBuffer
	history    HistoryRecorder
	logger     *log.Logger

	baseDir  string
	width    int
	bitrate  string
	interval time.Duration

	wg sync.WaitGroup
}

func NewBatchEngine(opts EngineOpts) *BatchEngine {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}

	if opts.AudioBitrate == "" {
		opts.AudioBitrate = defaultBitrate
	}

	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &BatchEngine{
		downloader: opts.Downloader,
		tracker:    opts.Tracker,
		logs:       opts.Logs,
		history:    opts.History,
		logger:     opts.Logger,
		baseDir:    opts.BaseDir,
		width:      opts.Width,
		bitrate:    opts.AudioBitrate,
		interval:   opts.ProgressInterval,
	}
}

// Submit resets the status table for the given selection and starts the batch
// in the background. It returns before any download work begins; callers poll
// the tracker for progress. An empty selection is rejected without touching
// the current table.
func (e *BatchEngine) Submit(songs []models.Song, playlistTitle string, format models.Format) error {
	if len(songs) == 0 {
		return shared.ErrEmptySelection
	}

	gen := e.tracker.Reset(songs)

	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		e.run(gen, songs, playlistTitle, format)
	}()

	return nil
}

// Wait blocks until all submitted batches have run to completion. Used during
// shutdown so the process does not exit with transcodes mid-flight.
func (e *BatchEngine) Wait() {
	e.wg.Wait()
}

func (e *BatchEngine) run(gen string, songs []models.Song, playlistTitle string, format models.Format) {
	folder, err := e.prepareFolder(playlistTitle)
	if err != nil {
		msg := fmt.Sprintf("%v: %v", shared.ErrBatchSetup, err)
		e.tracker.FailBatch(gen, msg)
		e.logs.Pushf("[ERROR] %s", msg)
		e.logger.Error("batch setup failed", "playlist", playlistTitle, "error", err)

		return
	}

	var opts services.FormatOptions

	switch format {
	case models.FormatMP4:
		opts = services.VideoOptions()
	default:
		opts = services.AudioOptions(e.bitrate)
	}

	e.logger.Info("batch started", "items", len(songs), "format", opts.Format, "folder", folder)

	g := new(errgroup.Group)
	g.SetLimit(e.width)

	ctx := context.Background()

	for _, song := range songs {
		g.Go(func() error {
			e.downloadOne(ctx, gen, song, folder, opts)

			return nil
		})
	}

	_ = g.Wait()

	e.tracker.FinishBatch(gen)
	e.logger.Info("batch finished", "items", len(songs))
}

func (e *BatchEngine) prepareFolder(playlistTitle string) (string, error) {
	name := shared.SanitizeFilename(playlistTitle)
	if name == "" {
		name = unknownPlaylist
	}

	folder := filepath.Join(e.baseDir, name)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}

	return folder, nil
}

// outputTemplate builds the engine's output path template for one item. The
// track number prefix keeps files sorted in playlist order; artist and title
// are resolved by the engine at download time.
func outputTemplate(folder string, order int) string {
	name := fmt.Sprintf("%02d - %%(artist,uploader|Unknown Artist)s - %%(title)s.%%(ext)s", order+1)

	return filepath.Join(folder, name)
}
