// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/entitymatch"
	"github.com/poiesic/entitymatch/gateway"
	"github.com/poiesic/entitymatch/gateway/badgerstore"
	"github.com/poiesic/entitymatch/match"
)

func main() {
	app := &cli.App{
		Name:  "entitymatch",
		Usage: "Organization name matching against reference datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Load reference dataset entries from a JSONL file",
				Action:    seedCommand,
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "JSONL file with one dataset entry per line",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to write per batch",
						Value: 100,
					},
				},
			},
			{
				Name:      "match",
				Usage:     "Match a single organization name",
				Action:    matchCommand,
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Search location for geographic ranking",
					},
					&cli.StringFlag{
						Name:  "context",
						Usage: "Free text context for quality scoring",
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum matches to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "force-refresh",
						Usage: "Bypass the result cache",
					},
				},
			},
			{
				Name:      "batch",
				Usage:     "Match organization names from a file, one per line",
				Action:    batchCommand,
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Text file with one name per line",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Search location for geographic ranking",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print dataset and cache statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// seedEntry is the JSONL input shape for the seed command.
type seedEntry struct {
	Name        string   `json:"name"`
	DatasetName string   `json:"dataset_name"`
	Category    string   `json:"category,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Countries   []string `json:"countries,omitempty"`
	LastUpdated string   `json:"last_updated,omitempty"`
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := badgerstore.Open(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	var (
		batch   []*gateway.Entry
		total   int
		skipped int
		line    int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.Put(ctx, batch...); err != nil {
			return fmt.Errorf("failed to write batch ending at line %d: %w", line, err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var raw seedEntry
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			slog.Warn("skipping malformed entry", "line", line, "error", err)
			skipped++
			continue
		}
		if raw.Name == "" {
			slog.Warn("skipping entry without a name", "line", line)
			skipped++
			continue
		}
		entry := &gateway.Entry{
			Name:        raw.Name,
			DatasetName: raw.DatasetName,
			Category:    raw.Category,
			Aliases:     raw.Aliases,
			Countries:   raw.Countries,
			LastUpdated: time.Now().UTC(),
		}
		if raw.LastUpdated != "" {
			if ts, err := time.Parse(time.RFC3339, raw.LastUpdated); err == nil {
				entry.LastUpdated = ts
			}
		}
		batch = append(batch, entry)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed reading input file: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Seeded %d entries (%d skipped)\n", total, skipped)
	return nil
}

func matchCommand(c *cli.Context) error {
	ctx := context.Background()

	name := strings.TrimSpace(c.Args().First())
	if name == "" {
		return fmt.Errorf("organization name is required")
	}

	store, err := badgerstore.Open(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	svc, err := entitymatch.NewService(store, entitymatch.WithOwnedGateway())
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	result, err := svc.FindMatchesEnhanced(ctx, name, match.Options{
		Location:     c.String("location"),
		Context:      c.String("context"),
		MaxResults:   c.Int("max-results"),
		ForceRefresh: c.Bool("force-refresh"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d matches in %s\n", result.MatchesFound, result.ProcessingTime)
	for _, m := range result.Matches {
		fmt.Printf("  %.3f  %-14s %s", m.Confidence, m.MatchType, m.OrganizationName)
		if m.DatasetName != "" {
			fmt.Printf("  [%s]", m.DatasetName)
		}
		fmt.Println()
	}
	return nil
}

func batchCommand(c *cli.Context) error {
	ctx := context.Background()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed reading input file: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("input file contains no names")
	}

	store, err := badgerstore.Open(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	svc, err := entitymatch.NewService(store, entitymatch.WithOwnedGateway())
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	results, err := svc.FindMatchesBatch(ctx, names, match.Options{
		Location: c.String("location"),
	})
	if err != nil {
		return err
	}

	for _, name := range names {
		matches := results[name]
		fmt.Printf("%s: %d matches\n", name, len(matches))
		for _, m := range matches {
			fmt.Printf("  %.3f  %-14s %s\n", m.Confidence, m.MatchType, m.OrganizationName)
		}
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := badgerstore.Open(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	svc, err := entitymatch.NewService(store, entitymatch.WithOwnedGateway())
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	stats, err := svc.ServiceStats(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-24s %v\n", k, stats[k])
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
