package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/credvault/cmd/app/commands"
	"github.com/allisson/credvault/internal/app"
	"github.com/allisson/credvault/internal/config"
)

func getCredentialCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "enroll",
			Usage: "Protect a credential from its factor digests",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "account-id",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Account ID (UUID version 4)",
				},
				&cli.StringSliceFlag{
					Name:  "factor",
					Usage: "Factor digest as NAME=HEX (hex-encoded SHA-256, repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "digest-from",
					Usage: "Hash a raw factor value as NAME=VALUE (development convenience, repeatable)",
				},
				&cli.StringSliceFlag{
					Name:    "context",
					Aliases: []string{"c"},
					Usage:   "Encryption context entry as KEY=VALUE (repeatable)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "json",
					Usage:   "Output format: 'text' or 'json'",
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

				return commands.RunEnroll(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account-id"),
					cmd.StringSlice("factor"),
					cmd.StringSlice("digest-from"),
					cmd.StringSlice("context"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "verify",
			Usage: "Verify presented factors against a wrapped key blob",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "account-id",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Account ID (UUID version 4)",
				},
				&cli.StringSliceFlag{
					Name:  "factor",
					Usage: "Factor digest as NAME=HEX (hex-encoded SHA-256, repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "digest-from",
					Usage: "Hash a raw factor value as NAME=VALUE (development convenience, repeatable)",
				},
				&cli.StringFlag{
					Name:     "wrapped-key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Hex-encoded wrapped key blob from enrollment",
				},
				&cli.StringSliceFlag{
					Name:    "context",
					Aliases: []string{"c"},
					Usage:   "Encryption context entry as KEY=VALUE (must match enrollment, repeatable)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "json",
					Usage:   "Output format: 'text' or 'json'",
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

				return commands.RunVerify(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account-id"),
					cmd.StringSlice("factor"),
					cmd.StringSlice("digest-from"),
					cmd.String("wrapped-key"),
					cmd.StringSlice("context"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "update",
			Usage: "Replace enrolled factors after proving the current ones",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "account-id",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Account ID (UUID version 4)",
				},
				&cli.StringSliceFlag{
					Name:  "old-factor",
					Usage: "Current factor digest as NAME=HEX (repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "old-digest-from",
					Usage: "Hash a raw current factor value as NAME=VALUE (repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "new-factor",
					Usage: "Replacement factor digest as NAME=HEX (repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "new-digest-from",
					Usage: "Hash a raw replacement factor value as NAME=VALUE (repeatable)",
				},
				&cli.StringFlag{
					Name:     "wrapped-key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Hex-encoded wrapped key blob from enrollment",
				},
				&cli.StringSliceFlag{
					Name:    "context",
					Aliases: []string{"c"},
					Usage:   "Encryption context entry as KEY=VALUE (must match enrollment, repeatable)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "json",
					Usage:   "Output format: 'text' or 'json'",
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

				return commands.RunUpdate(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account-id"),
					cmd.StringSlice("old-factor"),
					cmd.StringSlice("old-digest-from"),
					cmd.StringSlice("new-factor"),
					cmd.StringSlice("new-digest-from"),
					cmd.String("wrapped-key"),
					cmd.StringSlice("context"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "delete",
			Usage: "Acknowledge credential deletion with a cryptographic erasure receipt",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "account-id",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Account ID (UUID version 4)",
				},
				&cli.StringFlag{
					Name:    "reason",
					Aliases: []string{"r"},
					Value:   "",
					Usage:   "Reason recorded in the deletion receipt",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "json",
					Usage:   "Output format: 'text' or 'json'",
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

				return commands.RunDelete(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("account-id"),
					cmd.String("reason"),
					cmd.String("format"),
				)
			},
		},
	}
}
