package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"geminipocket/cmd/geminipocket/commands"
	"geminipocket/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		cli.NewPrinter().Error("%v", err)
		stop()
		os.Exit(1)
	}
}
