package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/notelist/internal"
	pkgconfig "github.com/starford/notelist/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const exampleConfigFile = "config/config.example.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(cmd.String("config"), exampleConfigFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func importNotes(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	stats, err := internal.Import(ctx, cmd.String("dir"), internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("import error: %w", err)
	}
	fmt.Fprintf(cmd.Root().Writer, "imported %s\n", stats)
	return nil
}

func renderNote(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Keep stdout for the rendered HTML.
	return internal.RenderNote(ctx, cmd.String("id"), cmd.Root().Writer,
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr))
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	return internal.ServeMCP(ctx,
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
		internal.WithVersion(version))
}

func main() {
	cmd := &cli.Command{
		Name:    "notelist",
		Usage:   "Renders note list items with excerpts, dates, to-do states and thumbnails",
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
				Usage:  "Start the HTTP API",
				Action: serve,
			},
			{
				Name:   "import",
				Usage:  "Import a directory of Markdown notes into the store",
				Action: importNotes,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory with notes and a _resources folder",
						Required: true,
					},
				},
			},
			{
				Name:   "render",
				Usage:  "Print the list item HTML of one note",
				Action: renderNote,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Note id",
						Required: true,
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the note list tools over MCP stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
