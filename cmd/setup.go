package main

import (
	"context"
	"os"

	"github.com/desertthunder/ytmd/internal/services"
	"github.com/desertthunder/ytmd/internal/shared"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a starter config, prepare the download folder and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// Setup prepares everything serve needs: a config file, the download root,
// the history database, and the extraction engine binaries.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warn("skipping config creation", "error", err)
	} else {
		r.writePlain("Wrote %s\n", path)
	}

	root := r.config.Downloads.RootDir()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}
	r.writePlain("Download folder: %s\n", root)

	_, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	closeDB()
	r.writePlain("Database ready: %s\n", r.config.Database.Path)

	if err := services.EnsureInstalled(ctx); err != nil {
		r.logger.Warn("engine install failed, downloads need yt-dlp on PATH", "error", err)
	} else {
		r.writePlain("Extraction engine ready\n")
	}

	return nil
}
