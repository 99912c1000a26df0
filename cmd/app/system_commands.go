package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lumenpass/lumenpass/cmd/app/commands"
	"github.com/lumenpass/lumenpass/internal/app"
	"github.com/lumenpass/lumenpass/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "migrate-legacy",
			Usage: "Re-encrypt every legacy CBC envelope in the visitors table with AES-GCM",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				visitorUseCase, err := container.VisitorUseCase()
				if err != nil {
					return err
				}

				return commands.RunMigrateLegacy(ctx, visitorUseCase, cmd.Root().Writer, cmd.String("format"))
			},
		},
	}
}
