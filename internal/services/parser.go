package services

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/ytmd/internal/models"
)

const (
	unknownPlaylistTitle = "Unknown Playlist"
	unknownVideoTitle    = "Unknown Video"
)

type rawThumbnail struct {
	URL string `json:"url"`
}

type rawEntry struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Uploader   string         `json:"uploader"`
	Channel    string         `json:"channel"`
	Thumbnail  string         `json:"thumbnail"`
	Thumbnails []rawThumbnail `json:"thumbnails"`
}

type rawInfo struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Uploader   string         `json:"uploader"`
	Channel    string         `json:"channel"`
	Thumbnail  string         `json:"thumbnail"`
	Thumbnails []rawThumbnail `json:"thumbnails"`
	Entries    []rawEntry     `json:"entries"`
}

func (e rawEntry) uploader() string {
	if e.Uploader != "" {
		return e.Uploader
	}
	return e.Channel
}

// thumbnail prefers the explicit field, then the last (largest) entry of the
// thumbnails list, matching yt-dlp's size ordering.
func (e rawEntry) thumbnail() string {
	if e.Thumbnail != "" {
		return e.Thumbnail
	}
	if n := len(e.Thumbnails); n > 0 {
		return e.Thumbnails[n-1].URL
	}
	return ""
}

// parsePlaylistJSON transforms a yt-dlp --dump-single-json document into a
// [PlaylistInfo]. Playlists keep each entry's position as its order even when
// malformed entries are skipped; a single video becomes a one-song list with
// order zero.
func parsePlaylistJSON(data []byte) (*PlaylistInfo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("engine returned no info; the URL might be invalid, private, or geo-restricted")
	}

	var info rawInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("malformed engine output: %v", err)
	}

	if len(info.Entries) > 0 {
		title := info.Title
		if title == "" {
			title = unknownPlaylistTitle
		}

		songs := make([]models.Song, 0, len(info.Entries))
		for index, entry := range info.Entries {
			if entry.ID == "" || entry.Title == "" {
				continue
			}
			songs = append(songs, models.Song{
				ID:        entry.ID,
				Title:     entry.Title,
				Uploader:  entry.uploader(),
				Thumbnail: entry.thumbnail(),
				Order:     index,
			})
		}
		return &PlaylistInfo{Title: title, Songs: songs}, nil
	}

	if info.ID == "" {
		return nil, fmt.Errorf("engine returned no info; the URL might be invalid, private, or geo-restricted")
	}

	title := info.Title
	if title == "" {
		title = unknownVideoTitle
	}
	single := rawEntry{
		ID:         info.ID,
		Title:      info.Title,
		Uploader:   info.Uploader,
		Channel:    info.Channel,
		Thumbnail:  info.Thumbnail,
		Thumbnails: info.Thumbnails,
	}
	return &PlaylistInfo{
		Title: title,
		Songs: []models.Song{{
			ID:        info.ID,
			Title:     title,
			Uploader:  single.uploader(),
			Thumbnail: single.thumbnail(),
			Order:     0,
		}},
	}, nil
}
