// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Command launchpad provides a command line interface to the on-chain token
// launchpad program and runs the launchpad tracker daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/padfi/launchpad-go/cmd"
)

func main() {
	killCtx, killCancel := signal.NotifyContext(context.Background(), syscall.SIGKILL)
	defer killCancel()
	go func() {
		<-killCtx.Done()
		_, _ = fmt.Fprintln(os.Stderr, "Kill signal received")
		os.Exit(1)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cobra.CheckErr(cmd.New().ExecuteContext(ctx))
}
