package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hoanghai1803/vnfinews/internal/config"
	"github.com/hoanghai1803/vnfinews/internal/feeds"
	"github.com/hoanghai1803/vnfinews/internal/models"
	"github.com/hoanghai1803/vnfinews/internal/summary"
)

func checkFeedsCmd() *cli.Command {
	return &cli.Command{
		Name:  "check-feeds",
		Usage: "Fetch every configured feed and report whether it parses",
		Description: `Downloads each configured feed and prints its title, entry count and a
few sample entries. Relevance filtering and summaries are not applied.
Exits non-zero when any feed fails.`,
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := readConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			// Inspect never summarizes; no database or provider is needed.
			fetcher := newFetcher(cfg, summary.New(nil, nil, summary.Options{}))

			failed := checkFeeds(ctx, c.App.Writer, fetcher, cfg.Feeds.URLs)
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d feeds failed", failed, len(cfg.Feeds.URLs)), 1)
			}
			return nil
		},
	}
}

// readConfig loads the config file at path, or the built-in defaults when
// there is none. Unlike config.Load it never writes a file.
func readConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return config.Load(path)
}

type feedInspector interface {
	Inspect(ctx context.Context, feedURL string) (*feeds.FeedReport, error)
}

// checkFeeds inspects urls in order, writes a report to w and returns how
// many failed.
func checkFeeds(ctx context.Context, w io.Writer, inspector feedInspector, urls []string) int {
	rule := strings.Repeat("-", 60)
	failed := 0

	for _, u := range urls {
		fmt.Fprintf(w, "\n%s\n%s\n", u, rule)

		report, err := inspector.Inspect(ctx, u)
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAILED (%s): %v\n", feeds.Kind(err), err)
			continue
		}

		fmt.Fprintf(w, "Title:   %s\n", report.Title)
		fmt.Fprintf(w, "Entries: %d\n", report.Entries)
		for i, s := range report.Samples {
			fmt.Fprintf(w, "  %d. %s\n", i+1, s.Title)
			fmt.Fprintf(w, "     %s\n", s.Link)
			fmt.Fprintf(w, "     %s\n", models.DisplayTime(s.Published))
		}
	}

	fmt.Fprintf(w, "\n%s\n%d/%d feeds working\n", strings.Repeat("=", 60), len(urls)-failed, len(urls))
	return failed
}
