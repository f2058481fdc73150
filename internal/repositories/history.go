// Package repositories contains the sqlite persistence layer.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/shared"
)

const historySchema = `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		video_id TEXT NOT NULL,
		title TEXT NOT NULL,
		uploader TEXT NOT NULL DEFAULT '',
		format TEXT NOT NULL,
		path TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
`

// HistoryRepository records completed downloads. It implements
// tasks.HistoryRecorder and backs the history command and endpoint.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Init creates the history table if it does not exist
func (r *HistoryRepository) Init() error {
	if _, err := r.db.Exec(historySchema); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}

	return nil
}

// Record inserts a completed download with a generated ID. The entry's
// CreatedAt is used when set so callers control ordering.
func (r *HistoryRepository) Record(entry models.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = shared.GenerateID()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO history (id, video_id, title, uploader, format, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.VideoID,
		entry.Title,
		entry.Uploader,
		entry.Format,
		entry.Path,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// Recent returns the newest entries, most recent first
func (r *HistoryRepository) Recent(limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, video_id, title, uploader, format, path, created_at
		FROM history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry

		err := rows.Scan(
			&entry.ID,
			&entry.VideoID,
			&entry.Title,
			&entry.Uploader,
			&entry.Format,
			&entry.Path,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
