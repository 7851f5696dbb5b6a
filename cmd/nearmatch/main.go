package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kova98/nearmatch.api/matchers"
)

func main() {
	app := newApp(os.Stdin, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "nearmatch",
		Usage:     "Count exact and near (edit distance 1) matches of a term in text",
		UsageText: "nearmatch --term batman [--file journal.txt]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:     "term",
				Aliases:  []string{"t"},
				Usage:    "Term to search for",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "File to search (reads stdin when omitted)",
			},
			&cli.BoolFlag{
				Name:  "start-boundary",
				Usage: "Require matches to start at the beginning of a word",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "end-boundary",
				Usage: "Require matches to end on a word boundary",
				Value: true,
			},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error {
			return searchCommand(c, stdin, stdout)
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.String("log-level"), err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func searchCommand(c *cli.Context, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		in = f
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	start := time.Now()
	res := matchers.Search(string(text), c.String("term"), matchers.Options{
		MustStartOnWordBoundary: c.Bool("start-boundary"),
		MustEndOnWordBoundary:   c.Bool("end-boundary"),
	})
	slog.Debug("scan finished", "chars", len(text), "elapsed", time.Since(start))

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
