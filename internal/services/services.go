// package services defines the interfaces for the media extraction and
// transcoding engine (yt-dlp + ffmpeg)
package services

import (
	"context"

	"github.com/desertthunder/ytmd/internal/models"
)

// PlaylistInfo is the result of flat playlist resolution: the playlist title
// and an ordered song list. A bare video URL resolves to a one-song list.
type PlaylistInfo struct {
	Title string        `json:"title"`
	Songs []models.Song `json:"songs"`
}

// Extractor resolves a playlist or video URL into song descriptors without
// downloading anything.
type Extractor interface {
	Resolve(ctx context.Context, url string) (*PlaylistInfo, error)
}

// DownloadHooks is the closed capability surface the engine reports through
// while processing a single item. Implementations must be safe to call from
// the engine's goroutine and must tolerate duplicate Completed calls; the
// status tracker's finish-guard settles the race.
type DownloadHooks interface {
	// Progress receives cumulative and total expected bytes. Total may be
	// zero or an estimate; callers ignore updates with an unknown total.
	Progress(downloadedBytes, totalBytes int64)

	// Completed fires when transcoding and post-processing for the item are
	// done. May fire more than once.
	Completed()

	// Diagnostic receives verbose/warning/error lines from the engine.
	Diagnostic(line string)
}

// FormatOptions carries the engine configuration for one batch's format
// choice.
type FormatOptions struct {
	Format       models.Format
	Selector     string // yt-dlp format selector expression
	AudioBitrate string // kbit/s, mp3 only
}

// AudioOptions selects the best audio source and transcodes to mp3 at a fixed
// bitrate with an embedded thumbnail.
func AudioOptions(bitrate string) FormatOptions {
	return FormatOptions{
		Format:       models.FormatMP3,
		Selector:     "bestaudio/best",
		AudioBitrate: bitrate,
	}
}

// VideoOptions selects the best mp4 video+audio pair, falling back to the
// best available source, normalized to an mp4 container with an embedded
// thumbnail.
func VideoOptions() FormatOptions {
	return FormatOptions{
		Format:   models.FormatMP4,
		Selector: "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
	}
}

// DownloadRequest describes one item's fetch+transcode job.
type DownloadRequest struct {
	VideoID        string
	OutputTemplate string
	Options        FormatOptions
}

// Downloader fetches and transcodes exactly one item, reporting through the
// provided hooks. A non-nil error means the item did not complete.
type Downloader interface {
	Download(ctx context.Context, req DownloadRequest, hooks DownloadHooks) error
}

// WatchURL derives the target URL for an opaque video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
