package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/parser"
	pkgconfig "github.com/starford/raido/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command, optional bool) (*internal.Config, error) {
	configPath := cmd.String("config")
	cfg := internal.NewDefaultConfig()

	load := pkgconfig.Load[internal.Config]
	if optional {
		load = pkgconfig.LoadOrDefault[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func convert(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	var overrides []importer.Option
	if cmd.Bool("no-front-matter") {
		overrides = append(overrides, importer.WithFrontMatter(false))
	}
	if cmd.Bool("extract-title") {
		overrides = append(overrides, importer.WithTitleExtraction(true))
	}
	if cmd.IsSet("tag-format") {
		f, err := parser.ParseTagFormat(cmd.String("tag-format"))
		if err != nil {
			return err
		}
		overrides = append(overrides, importer.WithTagFormat(f))
	}

	return internal.Convert(ctx, internal.ConvertRequest{
		Files:     cmd.Args().Slice(),
		OutDir:    cmd.String("out"),
		Overrides: overrides,
	}, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:    "raido",
		Usage:   "Markdown import pipeline: rich-document JSON, a SQLite-indexed vault, REST, SSE and MCP",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, SSE stream and vault watcher",
				Action: serve,
			},
			{
				Name:      "import",
				Usage:     "Convert Markdown files to document JSON, all or nothing",
				ArgsUsage: "FILE...",
				Action:    convert,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Directory receiving <name>.json per file (default: JSON array on stdout)",
					},
					&cli.BoolFlag{
						Name:  "no-front-matter",
						Usage: "Keep --- headers as body text",
					},
					&cli.BoolFlag{
						Name:  "extract-title",
						Usage: "Use the first h1 as title when front matter has none",
					},
					&cli.StringFlag{
						Name:  "tag-format",
						Usage: "hash (#word) or bracket (#[multi word])",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
