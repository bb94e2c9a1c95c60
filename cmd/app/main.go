package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/figcaption/internal"
	"github.com/starford/figcaption/internal/models"
	pkgconfig "github.com/starford/figcaption/pkg/config"
)

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func install(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.Install(ctx, opts...)
}

func uninstall(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.Uninstall(ctx, opts...)
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

func createUser(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.CreateUser(ctx, cmd.String("login"), models.Role(cmd.String("role")), opts...)
}

func createPost(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.CreatePost(ctx,
		models.OwnerType(cmd.String("type")),
		cmd.String("title"),
		int64(cmd.Int("author")),
		opts...)
}

func deletePost(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.DeletePost(ctx, int64(cmd.Int("id")), opts...)
}

func main() {
	cmd := &cli.Command{
		Name:   "figcaption",
		Usage:  "Featured image captions for posts and pages: edit form, storage and template functions",
		Action: serve,
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
				Usage:  "Run the HTTP server (default)",
				Action: serve,
			},
			{
				Name:   "install",
				Usage:  "Activate: check the host version and write the options record",
				Action: install,
			},
			{
				Name:   "uninstall",
				Usage:  "Deactivate: delete the options record, keeping captions",
				Action: uninstall,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the caption tools over MCP stdio",
				Action: serveMCP,
			},
			{
				Name:  "user",
				Usage: "Manage host users",
				Commands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Create a user and print its API token",
						Action: createUser,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "login", Usage: "Unique login", Required: true},
							&cli.StringFlag{Name: "role", Usage: "administrator, editor, author, contributor or subscriber", Value: string(models.RoleAuthor)},
						},
					},
				},
			},
			{
				Name:  "post",
				Usage: "Manage host posts",
				Commands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Create a post or page and print its id",
						Action: createPost,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "type", Usage: "post or page", Value: string(models.OwnerPost)},
							&cli.StringFlag{Name: "title", Usage: "Post title"},
							&cli.IntFlag{Name: "author", Usage: "Author user id", Required: true},
						},
					},
					{
						Name:   "delete",
						Usage:  "Delete a post and its caption",
						Action: deletePost,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Usage: "Post id", Required: true},
						},
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
