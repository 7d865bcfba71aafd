package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"luis-provisioner/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cli.Version = version
	cli.Commit = commit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand()
	rootCmd.SetContext(ctx)
	return cli.Execute(rootCmd)
}
