package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("vnfinews failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vnfinews",
		Usage: "Vietnamese finance and policy news aggregator",
		Description: `Aggregates finance and policy news from Vietnamese RSS feeds, keeps
the relevant items, attaches a one-sentence summary and serves the result
over a small web API.

Flags can generally be set via environment variables, e.g.:

--config => VNFINEWS_CONFIG=config.toml
--log-level => VNFINEWS_LOG_LEVEL=debug`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "Path to config file (created with defaults if missing)",
				EnvVars: []string{"VNFINEWS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Value:   "./data",
				Usage:   "Directory for the SQLite database",
				EnvVars: []string{"VNFINEWS_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level: debug, info, warn or error",
				EnvVars: []string{"VNFINEWS_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "Log format: text or json",
				EnvVars: []string{"VNFINEWS_LOG_FORMAT"},
			},
		},
		Before: func(ctx *cli.Context) error {
			logger, err := newLogger(ctx.App.ErrWriter, ctx.String("log-level"), ctx.String("log-format"))
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCmd(),
			fetchCmd(),
			checkFeedsCmd(),
		},
	}
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: must be text or json", format)
	}
}
