package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ytmd/internal/server"
	"github.com/desertthunder/ytmd/internal/services"
	"github.com/desertthunder/ytmd/internal/shared"
	"github.com/desertthunder/ytmd/internal/status"
	"github.com/desertthunder/ytmd/internal/tasks"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the local download web interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Override the listen address (host:port)",
			},
			&cli.BoolFlag{
				Name:    "open",
				Aliases: []string{"o"},
				Usage:   "Open the page in the default browser",
			},
		},
		Action: r.Serve,
	}
}

var (
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C4302B"))
	bannerURL   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Underline(true)
)

// Serve wires the download pipeline to the HTTP front-end and blocks until
// interrupted. In-flight batches are allowed to finish before exit.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := r.config.Server.Addr()
	if cmd.String("addr") != "" {
		addr = cmd.String("addr")
	}

	client, ok := r.extractor.(*services.YTDLP)
	if !ok {
		client = services.NewYTDLP(
			r.config.Downloads.Retries,
			r.config.Downloads.ProgressInterval(),
			r.logger,
		)
	}

	if err := services.EnsureInstalled(ctx); err != nil {
		r.logger.Warn("engine install check failed, relying on PATH", "error", err)
	}

	tracker := status.NewTracker()
	logs := status.NewLogBuffer()

	var recorder tasks.HistoryRecorder
	var source server.HistorySource

	if repo, closeDB, err := r.openHistory(); err != nil {
		r.logger.Warn("history disabled", "error", err)
	} else {
		recorder = repo
		source = repo
		defer closeDB()
	}

	engine := tasks.NewBatchEngine(tasks.EngineOpts{
		Downloader:       client,
		Tracker:          tracker,
		Logs:             logs,
		History:          recorder,
		Logger:           r.logger,
		BaseDir:          r.config.Downloads.RootDir(),
		Width:            r.config.Downloads.Workers,
		AudioBitrate:     r.config.Downloads.AudioBitrate,
		ProgressInterval: r.config.Downloads.ProgressInterval(),
	})

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(server.NewAPI(client, engine, tracker, logs, source, r.logger))

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	pageURL := "http://" + addr
	r.writePlain("%s listening on %s\n", bannerTitle.Render("ytmd"), bannerURL.Render(pageURL))

	if cmd.Bool("open") || r.config.Server.OpenBrowser {
		if err := shared.OpenBrowser(pageURL); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("shutdown error", "error", err)
	}

	engine.Wait()

	return nil
}
