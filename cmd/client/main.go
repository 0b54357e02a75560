package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/atinyakov/PolicyFinder/cmd/client/commands"
)

var (
	version   string
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx, version, buildDate); err != nil {
		os.Exit(1)
	}
}
