// package formatter renders resolved playlists and download history to
// various formats (CSV, Markdown, plain text) for the CLI commands.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/services"
)

// PlaylistToCSV converts a resolved playlist to CSV format with columns: Order, ID, Title, Uploader
func PlaylistToCSV(info *services.PlaylistInfo) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Order", "ID", "Title", "Uploader"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range info.Songs {
		record := []string{
			strconv.Itoa(song.Order + 1),
			song.ID,
			song.Title,
			song.Uploader,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaylistToMarkdown converts a resolved playlist to Markdown format
func PlaylistToMarkdown(info *services.PlaylistInfo) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", info.Title))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(info.Songs)))

	for _, song := range info.Songs {
		uploader := song.Uploader
		if uploader == "" {
			uploader = "Unknown Artist"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", song.Order+1, uploader, song.Title))
	}

	return buf.Bytes()
}

// PlaylistToText converts a resolved playlist to plain text format
func PlaylistToText(info *services.PlaylistInfo) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", info.Title))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(info.Songs)))

	for _, song := range info.Songs {
		uploader := song.Uploader
		if uploader == "" {
			uploader = "Unknown Artist"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", song.Order+1, uploader, song.Title))
	}

	return buf.Bytes()
}

// HistoryToText renders download history entries, newest first
func HistoryToText(entries []models.HistoryEntry) []byte {
	var buf bytes.Buffer

	if len(entries) == 0 {
		buf.WriteString("No downloads recorded.\n")

		return buf.Bytes()
	}

	for _, entry := range entries {
		uploader := entry.Uploader
		if uploader == "" {
			uploader = "Unknown Artist"
		}
		buf.WriteString(fmt.Sprintf("%s  [%s]  %s - %s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"),
			entry.Format,
			uploader,
			entry.Title,
		))
	}

	return buf.Bytes()
}
