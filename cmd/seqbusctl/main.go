// Command seqbusctl is the operational CLI for a seqbus deployment: publish
// ad-hoc commands, tap the ordered event stream, and resolve instance ids.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/burgrp-go/seqbus/cmd/seqbusctl/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := commands.GetRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
