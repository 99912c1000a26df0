package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lumenpass/lumenpass/cmd/app/commands"
	"github.com/lumenpass/lumenpass/internal/app"
	"github.com/lumenpass/lumenpass/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-key",
			Usage: "Generate the field encryption key file (KEY_FILE_PATH, wrapped with KEY_WRAP_URI when set)",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyStore, err := container.KeyStore()
				if err != nil {
					return err
				}

				return commands.RunCreateKey(ctx, keyStore, cmd.Root().Writer, cmd.String("format"))
			},
		},
		{
			Name:  "key-info",
			Usage: "Show the location and fingerprint of the field encryption key",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyStore, err := container.KeyStore()
				if err != nil {
					return err
				}

				return commands.RunKeyInfo(ctx, keyStore, cmd.Root().Writer, cmd.String("format"))
			},
		},
	}
}
