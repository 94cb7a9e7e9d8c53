// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
)

// newInitializeCmd returns the initialize command.
func newInitializeCmd(runFunc func(context.Context, clientConfig) error) *cobra.Command {
	var conf clientConfig

	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Initialize the launchpad state account",
		Long:  "Creates the root launchpad state account on the configured cluster with the wallet as admin. All token sales are registered under it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.Context(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf)

	return cmd
}

func runInitialize(ctx context.Context, conf clientConfig) error {
	ctx, cl, prov, err := setupClient(ctx, conf)
	if err != nil {
		return err
	}
	defer prov.Close()

	res, err := cl.InitializeLaunchpad(ctx)
	if err != nil {
		return err
	}

	log.Info(ctx, "Launchpad initialized",
		z.Str("launchpad", res.Launchpad.String()),
		z.Str("signature", res.Signature.String()),
	)

	return nil
}
