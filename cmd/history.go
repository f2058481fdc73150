package main

import (
	"context"

	"github.com/desertthunder/ytmd/internal/formatter"
	"github.com/urfave/cli/v3"
)

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previously downloaded songs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries to show",
				Value:   25,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit JSON instead of text",
			},
		},
		Action: r.History,
	}
}

// History prints the most recent completed downloads, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := repo.Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	return r.writePlain("%s", formatter.HistoryToText(entries))
}
