package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytmd/internal/formatter"
	"github.com/desertthunder/ytmd/internal/shared"
	"github.com/urfave/cli/v3"
)

func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Resolve a playlist or video URL and print its songs",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, csv",
				Value:   "text",
			},
		},
		Action: r.Fetch,
	}
}

// Fetch resolves playlist metadata and renders the song list without
// downloading anything.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	url := cmd.Args().First()
	if url == "" {
		return shared.ErrMissingURL
	}

	r.logger.Info("resolving", "url", url)

	info, err := r.extractor.Resolve(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", url, err)
	}

	switch cmd.String("format") {
	case "json":
		return r.writeJSON(info, true)
	case "markdown":
		return r.writePlain("%s", formatter.PlaylistToMarkdown(info))
	case "csv":
		data, err := formatter.PlaylistToCSV(info)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "text":
		return r.writePlain("%s", formatter.PlaylistToText(info))
	default:
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, cmd.String("format"))
	}
}
