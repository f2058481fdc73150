package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/services"
	"github.com/desertthunder/ytmd/internal/shared"
)

//go:embed static/index.html
var indexPage []byte

// resolveTimeout bounds playlist metadata extraction. Large playlists are
// resolved flat, so this is generous.
const resolveTimeout = 2 * time.Minute

// BatchSubmitter starts a download batch in the background.
type BatchSubmitter interface {
	Submit(songs []models.Song, playlistTitle string, format models.Format) error
}

// StatusSource produces point-in-time snapshots of the active batch.
type StatusSource interface {
	Snapshot() models.BatchStatus
}

// LogSource drains buffered log lines destined for the page console.
type LogSource interface {
	Drain() []string
}

// HistorySource lists previously completed downloads.
type HistorySource interface {
	Recent(limit int) ([]models.HistoryEntry, error)
}

// API serves the browser-facing JSON endpoints and the embedded page.
type API struct {
	extractor services.Extractor
	engine    BatchSubmitter
	tracker   StatusSource
	logs      LogSource
	history   HistorySource
	logger    *log.Logger
}

// NewAPI creates the API handler. The history source is optional; when nil
// the /history endpoint reports the database as unavailable.
func NewAPI(extractor services.Extractor, engine BatchSubmitter, tracker StatusSource, logs LogSource, history HistorySource, logger *log.Logger) *API {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &API{
		extractor: extractor,
		engine:    engine,
		tracker:   tracker,
		logs:      logs,
		history:   history,
		logger:    logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *API) Routes() []string {
	return []string{
		"/",
		"/favicon.ico",
		"/fetch_playlist",
		"/download",
		"/status",
		"/logs",
		"/history",
	}
}

func (h *API) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.URL.Path {
	case "/":
		h.serveIndex(w, req)
	case "/favicon.ico":
		w.WriteHeader(http.StatusNoContent)
	case "/fetch_playlist":
		h.requirePost(w, req, h.fetchPlaylist)
	case "/download":
		h.requirePost(w, req, h.download)
	case "/status":
		h.requireGet(w, req, h.status)
	case "/logs":
		h.requireGet(w, req, h.drainLogs)
	case "/history":
		h.requireGet(w, req, h.listHistory)
	default:
		http.NotFound(w, req)
	}
}

func (h *API) serveIndex(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (h *API) requirePost(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	if req.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	next(w, req)
}

func (h *API) requireGet(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	next(w, req)
}

type fetchRequest struct {
	URL string `json:"url"`
}

type fetchResponse struct {
	PlaylistTitle string        `json:"playlist_title"`
	Songs         []models.Song `json:"songs"`
}

// fetchPlaylist resolves playlist metadata without downloading anything. The
// song list is returned to the page for selection and echoed back verbatim on
// /download.
func (h *API) fetchPlaylist(w http.ResponseWriter, req *http.Request) {
	var body fetchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if body.URL == "" {
		h.writeError(w, http.StatusBadRequest, "No URL provided")
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), resolveTimeout)
	defer cancel()

	info, err := h.extractor.Resolve(ctx, body.URL)
	if err != nil {
		h.logger.Error("playlist resolution failed", "url", body.URL, "error", err)
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Could not fetch playlist: %v", err))
		return
	}

	h.writeJSON(w, http.StatusOK, fetchResponse{
		PlaylistTitle: info.Title,
		Songs:         info.Songs,
	})
}

type downloadRequest struct {
	Songs         []models.Song `json:"songs"`
	PlaylistTitle string        `json:"playlist_title"`
	Format        string        `json:"format"`
}

// download accepts a batch and returns immediately. 202 means accepted, not
// finished; the page follows progress via /status.
func (h *API) download(w http.ResponseWriter, req *http.Request) {
	var body downloadRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if body.Format == "" {
		body.Format = string(models.FormatMP3)
	}

	format, ok := models.ParseFormat(body.Format)
	if !ok {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported format: %s", body.Format))
		return
	}

	if err := h.engine.Submit(body.Songs, body.PlaylistTitle, format); err != nil {
		if errors.Is(err, shared.ErrEmptySelection) {
			h.writeError(w, http.StatusBadRequest, "No songs selected")
			return
		}

		h.logger.Error("batch submission failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Could not start download")
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{"message": "Download started"})
}

func (h *API) status(w http.ResponseWriter, req *http.Request) {
	h.writeJSON(w, http.StatusOK, h.tracker.Snapshot())
}

// drainLogs empties the log buffer as a bare JSON array. Lines are delivered
// at most once, so only one page should poll this endpoint.
func (h *API) drainLogs(w http.ResponseWriter, req *http.Request) {
	h.writeJSON(w, http.StatusOK, h.logs.Drain())
}

func (h *API) listHistory(w http.ResponseWriter, req *http.Request) {
	if h.history == nil {
		h.writeError(w, http.StatusServiceUnavailable, shared.ErrHistoryUnavailable.Error())
		return
	}

	entries, err := h.history.Recent(50)
	if err != nil {
		h.logger.Error("history query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Could not load history")
		return
	}

	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	h.writeJSON(w, http.StatusOK, map[string][]models.HistoryEntry{"history": entries})
}

func (h *API) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("response encoding failed", "error", err)
	}
}

func (h *API) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, map[string]string{"message": message})
}
