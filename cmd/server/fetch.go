package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/hoanghai1803/vnfinews/internal/models"
	"github.com/hoanghai1803/vnfinews/internal/pipeline"
)

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Run one aggregation and print the articles",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			comp, err := setup(c)
			if err != nil {
				return err
			}
			defer comp.Close()

			res, err := comp.pipeline.Run(ctx)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return writeResultJSON(c.App.Writer, res)
			}
			writeResultText(c.App.Writer, res)
			return nil
		},
	}
}

type sourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// sourceCounts tallies articles per source, most articles first, then by
// name.
func sourceCounts(articles []models.Article) []sourceCount {
	groups := lo.GroupBy(articles, func(a models.Article) string { return a.Source })
	counts := lo.MapToSlice(groups, func(source string, items []models.Article) sourceCount {
		return sourceCount{Source: source, Count: len(items)}
	})
	slices.SortFunc(counts, func(a, b sourceCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), strings.Compare(a.Source, b.Source))
	})
	return counts
}

func writeResultJSON(w io.Writer, res *pipeline.Result) error {
	articles := res.Articles
	if articles == nil {
		articles = []models.Article{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(map[string]any{
		"articles": articles,
		"count":    len(articles),
		"sources":  sourceCounts(articles),
		"failed":   res.Failed,
	})
}

func writeResultText(w io.Writer, res *pipeline.Result) {
	for i, a := range res.Articles {
		marker := ""
		if a.AISummary {
			marker = " [AI]"
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, a.Title)
		fmt.Fprintf(w, "   %s | %s%s\n", a.Source, models.DisplayTime(a.Timestamp), marker)
		fmt.Fprintf(w, "   %s\n", a.Summary)
		fmt.Fprintf(w, "   %s\n\n", a.URL)
	}

	fmt.Fprintf(w, "%d articles from %d feeds (%d failed)\n", len(res.Articles), res.FeedsTotal, len(res.Failed))
	for _, sc := range sourceCounts(res.Articles) {
		fmt.Fprintf(w, "  %-24s %d\n", sc.Source, sc.Count)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "  failed: %s (%s): %s\n", f.URL, f.Kind, f.Error)
	}
}
