package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Request validation errors
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrMissingURL     = fmt.Errorf("playlist or video URL is required")
	ErrEmptySelection = fmt.Errorf("no songs were selected for download")
	ErrInvalidFormat  = fmt.Errorf("unsupported download format")

	// Extraction and batch errors
	ErrExtraction = fmt.Errorf("failed to fetch info")
	ErrBatchSetup = fmt.Errorf("failed to prepare download folder")

	// Persistence errors
	ErrHistoryUnavailable = fmt.Errorf("download history unavailable")
)
