package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/ytmd/internal/models"
	"github.com/desertthunder/ytmd/internal/services"
	"github.com/desertthunder/ytmd/internal/shared"
	tu "github.com/desertthunder/ytmd/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			extractor := &tu.MockExtractor{}

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Logger:    logger,
				Output:    output,
				Extractor: extractor,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.extractor != extractor {
				t.Error("expected extractor to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.extractor == nil {
				t.Error("expected default extractor to be set")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Extractor: &tu.MockExtractor{}})

		commands := runner.register()
		if len(commands) != 4 {
			t.Fatalf("expected 4 commands, got %d", len(commands))
		}

		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}

		for _, want := range []string{"setup", "serve", "fetch", "history"} {
			if !names[want] {
				t.Errorf("missing command %s", want)
			}
		}
	})
}

func runApp(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{Name: "ytmd", Commands: runner.register()}

	return app.Run(context.Background(), append([]string{"ytmd"}, args...))
}

func TestFetchCommand(t *testing.T) {
	info := &services.PlaylistInfo{
		Title: "Road Mix",
		Songs: []models.Song{
			{ID: "vid-a", Title: "Alpha", Uploader: "Artist A", Order: 0},
			{ID: "vid-b", Title: "Beta", Order: 1},
		},
	}

	t.Run("text output", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Extractor: &tu.MockExtractor{Info: info},
			Output:    output,
		})

		if err := runApp(t, runner, "fetch", "https://youtube.com/playlist?list=x"); err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Playlist: Road Mix") || !strings.Contains(got, "1. Artist A - Alpha") {
			t.Errorf("unexpected output: %s", got)
		}
	})

	t.Run("json output", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Extractor: &tu.MockExtractor{Info: info},
			Output:    output,
		})

		if err := runApp(t, runner, "fetch", "--format", "json", "https://youtube.com/playlist?list=x"); err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		if !strings.Contains(output.String(), `"title": "Road Mix"`) {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("missing url", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Extractor: &tu.MockExtractor{Info: info}})

		err := runApp(t, runner, "fetch")
		if !errors.Is(err, shared.ErrMissingURL) {
			t.Errorf("expected ErrMissingURL, got %v", err)
		}
	})

	t.Run("resolution failure", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Extractor: &tu.MockExtractor{Err: errors.New("unavailable")},
			Output:    &bytes.Buffer{},
		})

		if err := runApp(t, runner, "fetch", "https://youtube.com/watch?v=x"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	config := shared.DefaultConfig()
	config.Database.Path = t.TempDir() + "/history.db"

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:    config,
		Extractor: &tu.MockExtractor{},
		Output:    output,
	})

	if err := runApp(t, runner, "history"); err != nil {
		t.Fatalf("history failed: %v", err)
	}

	if !strings.Contains(output.String(), "No downloads recorded") {
		t.Errorf("unexpected output: %s", output.String())
	}
}
