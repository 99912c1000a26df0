package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lumenpass/lumenpass/cmd/app/commands"
	"github.com/lumenpass/lumenpass/internal/app"
	"github.com/lumenpass/lumenpass/internal/config"
	scanService "github.com/lumenpass/lumenpass/internal/scan/service"
)

// replayFrameInterval paces recorded frames so a scan of a short directory does not spin.
const replayFrameInterval = 10 * time.Millisecond

// withContainer runs fn against a fresh container and shuts it down afterwards.
func withContainer(ctx context.Context, cfg *config.Config, fn func(container *app.Container) error) error {
	container := app.NewContainer(cfg)
	defer func() { _ = container.Shutdown(ctx) }()
	return fn(container)
}

func getVisitorCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register",
			Usage: "Register a visitor and issue their pass",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Visitor name"},
				&cli.StringFlag{Name: "phone", Aliases: []string{"p"}, Required: true, Usage: "Phone number, 7 to 15 digits"},
				&cli.StringFlag{Name: "purpose", Aliases: []string{"r"}, Required: true, Usage: "Purpose of the visit"},
				&cli.StringFlag{Name: "png", Aliases: []string{"o"}, Usage: "Write the pass image to this file"},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, config.Load(), func(container *app.Container) error {
					visitorUseCase, err := container.VisitorUseCase()
					if err != nil {
						return err
					}
					return commands.RunRegisterVisitor(
						ctx,
						visitorUseCase,
						cmd.Root().Writer,
						cmd.String("name"),
						cmd.String("phone"),
						cmd.String("purpose"),
						cmd.String("png"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "checkout",
			Usage: "Mark a visitor as checked out",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "id", Aliases: []string{"i"}, Required: true, Usage: "Visitor ID"},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, config.Load(), func(container *app.Container) error {
					visitorUseCase, err := container.VisitorUseCase()
					if err != nil {
						return err
					}
					return commands.RunCheckOut(
						ctx, visitorUseCase, cmd.Root().Writer, cmd.Int64("id"), cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "issue-credential",
			Usage: "Write the pass image of a stored visitor",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "id", Aliases: []string{"i"}, Required: true, Usage: "Visitor ID"},
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default visitor-<id>.png)"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, config.Load(), func(container *app.Container) error {
					visitorUseCase, err := container.VisitorUseCase()
					if err != nil {
						return err
					}
					return commands.RunIssueCredential(
						ctx, visitorUseCase, cmd.Root().Writer, cmd.Int64("id"), cmd.String("output"),
					)
				})
			},
		},
		{
			Name:  "scan",
			Usage: "Read a pass from the camera and verify it",
			Flags: []cli.Flag{
				&cli.DurationFlag{Name: "timeout", Aliases: []string{"t"}, Usage: "Scan timeout (default SCAN_TIMEOUT_SECONDS)"},
				&cli.StringFlag{Name: "verified-by", Aliases: []string{"v"}, Usage: "Record who verified the pass"},
				&cli.StringFlag{Name: "from-dir", Usage: "Scan recorded PNG/JPEG frames from a directory instead of the camera"},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()

				var replay scanService.CameraOpener
				if dir := cmd.String("from-dir"); dir != "" {
					frames, err := commands.LoadFrames(dir)
					if err != nil {
						return err
					}
					replay = scanService.NewImageSequenceCamera(frames, replayFrameInterval)
					// Every recorded frame is worth decoding and there is nothing to preview.
					cfg.ScanDecodeEvery = 1
					cfg.ScanPreviewEnabled = false
				}

				return withContainer(ctx, cfg, func(container *app.Container) error {
					if replay != nil {
						container.UseCameraOpener(replay)
					}

					timeout := cmd.Duration("timeout")
					if timeout <= 0 {
						timeout = container.Config().ScanTimeout
					}

					visitorUseCase, err := container.VisitorUseCase()
					if err != nil {
						return err
					}
					return commands.RunScan(
						ctx, visitorUseCase, cmd.Root().Writer, timeout, cmd.String("verified-by"), cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "decode-image",
			Usage: "Read a pass from a PNG or JPEG file and verify it",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Aliases: []string{"i"}, Required: true, Usage: "Image file"},
				&cli.StringFlag{Name: "verified-by", Aliases: []string{"v"}, Usage: "Record who verified the pass"},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, config.Load(), func(container *app.Container) error {
					credentialUseCase, err := container.CredentialUseCase()
					if err != nil {
						return err
					}
					visitorUseCase, err := container.VisitorUseCase()
					if err != nil {
						return err
					}
					return commands.RunDecodeImage(
						ctx,
						credentialUseCase,
						visitorUseCase,
						cmd.Root().Writer,
						cmd.String("file"),
						cmd.String("verified-by"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "verify-token",
			Usage: "Verify a pass token given as text",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "token", Aliases: []string{"t"}, Required: true, Usage: "Pass token"},
				&cli.StringFlag{Name: "verified-by", Aliases: []string{"v"}, Usage: "Record who verified the pass"},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, config.Load(), func(container *app.Container) error {
					visitorUseCase, err := container.VisitorUseCase()
					if err != nil {
						return err
					}
					return commands.RunVerifyToken(
						ctx,
						visitorUseCase,
						cmd.Root().Writer,
						cmd.String("token"),
						cmd.String("verified-by"),
						cmd.String("format"),
					)
				})
			},
		},
	}
}
