package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/credvault/cmd/app/commands"
	"github.com/allisson/credvault/internal/app"
	"github.com/allisson/credvault/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "check",
			Usage: "Run an end-to-end self-test against the configured wrapping provider",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "rounds",
					Aliases: []string{"r"},
					Value:   3,
					Usage:   "Number of enroll/verify/update/delete rounds to run",
				},
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Value:   2,
					Usage:   "Number of rounds to run concurrently",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.CredentialUsecase()
				if err != nil {
					return err
				}

				return commands.RunCheck(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("rounds")),
					int(cmd.Int("workers")),
				)
			},
		},
		{
			Name:  "version",
			Usage: "Print the application version",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				_, err := fmt.Fprintf(commands.DefaultIO().Writer, "credvault %s\n", version)
				return err
			},
		},
	}
}
