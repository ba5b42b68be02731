// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/awnumar/memguard"
	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	// Wipe secure enclaves if the process receives an interrupt signal
	memguard.CatchInterrupt()
	defer memguard.Purge()

	cmd := &cli.Command{
		Name:     "credvault",
		Usage:    "Zero-knowledge multi-factor credential protection",
		Version:  version,
		Commands: getCommands(version),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		memguard.SafeExit(1)
	}
}
