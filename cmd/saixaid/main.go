// Copyright 2026 Saixaid Authors
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	saixaid "github.com/CyBerk9z/saixaid-main"
	"github.com/CyBerk9z/saixaid-main/config"
	"github.com/CyBerk9z/saixaid-main/rag"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "saixaid",
		Usage: "Multi-tenant conversational log search and question answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Chunk, embed, and index a conversation export for a tenant",
				Action: ingestCommand,
				Flags: []cli.Flag{
					tenantFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the CSV conversation export",
						Required: true,
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Ask a question against a tenant's index",
				Action: queryCommand,
				Flags: []cli.Flag{
					tenantFlag(),
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "Question to answer",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of passages to retrieve",
						Value: rag.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "show-sources",
						Usage: "Print retrieved passages with their scores",
					},
				},
			},
			{
				Name:   "delete-index",
				Usage:  "Delete a tenant's index and reset its source statuses",
				Action: deleteIndexCommand,
				Flags:  []cli.Flag{tenantFlag()},
			},
			{
				Name:   "set-prompt",
				Usage:  "Set the system prompt used when answering for a tenant",
				Action: setPromptCommand,
				Flags: []cli.Flag{
					tenantFlag(),
					&cli.StringFlag{
						Name:     "prompt",
						Aliases:  []string{"p"},
						Usage:    "System prompt text",
						Required: true,
					},
				},
			},
			{
				Name:   "show-prompt",
				Usage:  "Print the system prompt configured for a tenant",
				Action: showPromptCommand,
				Flags:  []cli.Flag{tenantFlag()},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func tenantFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "tenant",
		Aliases:  []string{"t"},
		Usage:    "Tenant identifier",
		Required: true,
	}
}

func setup(c *cli.Context) error {
	// Secrets come from the environment; a local .env is a convenience.
	_ = godotenv.Load()
	return setupLogger(c)
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

func buildApp(c *cli.Context) (*saixaid.App, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app, err := saixaid.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	return app, nil
}

func ingestCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	stats, err := app.Service().BuildIndex(context.Background(), c.String("tenant"), c.String("file"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Indexed %d passages for tenant %s\n", stats.IndexSize, c.String("tenant"))
	return nil
}

func queryCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Service().Query(context.Background(), c.String("tenant"), c.String("question"), c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Fprintln(os.Stdout, result.Answer)

	if c.Bool("show-sources") {
		fmt.Fprintln(os.Stdout)
		for i, doc := range result.SourceDocuments {
			fmt.Fprintf(os.Stdout, "[%d] %s (similarity %.4f, rerank %.1f)\n", i+1, doc.PassageID, doc.Score, doc.RerankScore)
			fmt.Fprintln(os.Stdout, doc.Text)
			fmt.Fprintln(os.Stdout)
		}
	}
	return nil
}

func deleteIndexCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Service().DeleteIndex(context.Background(), c.String("tenant")); err != nil {
		return fmt.Errorf("index deletion failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Deleted index for tenant %s\n", c.String("tenant"))
	return nil
}

func setPromptCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.TenantRepository().SetSystemPrompt(context.Background(), c.String("tenant"), c.String("prompt")); err != nil {
		return fmt.Errorf("failed to set system prompt: %w", err)
	}

	fmt.Fprintf(os.Stdout, "System prompt set for tenant %s\n", c.String("tenant"))
	return nil
}

func showPromptCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	prompt, err := app.TenantRepository().GetSystemPrompt(context.Background(), c.String("tenant"))
	if err != nil {
		return fmt.Errorf("failed to load system prompt: %w", err)
	}

	fmt.Fprintln(os.Stdout, prompt)
	return nil
}
