// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/launchpad"
	"github.com/padfi/launchpad-go/solutil"
)

type purchaseConfig struct {
	clientConfig

	Sale   string
	Round  string
	Vault  string
	Amount string
}

// newPurchaseCmd returns the purchase command.
func newPurchaseCmd(runFunc func(context.Context, purchaseConfig) error) *cobra.Command {
	var conf purchaseConfig

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Purchase tokens in a sale round",
		Long:  "Contributes SOL to an active sale round, paying from the wallet into the sale vault. The purchased allocation vests linearly and is claimed with claim.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.Context(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf.clientConfig)
	bindPurchaseFlags(cmd.Flags(), &conf)

	return cmd
}

func bindPurchaseFlags(flags *pflag.FlagSet, config *purchaseConfig) {
	flags.StringVar(&config.Sale, "sale", "", "Address of the token sale account")
	flags.StringVar(&config.Round, "round", "", "Address of the sale round account")
	flags.StringVar(&config.Vault, "vault", "", "Address of the vault account receiving contributions")
	flags.StringVar(&config.Amount, "amount", "", "Contribution amount, in SOL")
}

func runPurchase(ctx context.Context, conf purchaseConfig) error {
	sale, err := pubkeyFlag(conf.Sale, "sale")
	if err != nil {
		return err
	}

	round, err := pubkeyFlag(conf.Round, "round")
	if err != nil {
		return err
	}

	vault, err := pubkeyFlag(conf.Vault, "vault")
	if err != nil {
		return err
	}

	lamports, err := solFlag(conf.Amount, "amount")
	if err != nil {
		return err
	}

	ctx, cl, prov, err := setupClient(ctx, conf.clientConfig)
	if err != nil {
		return err
	}
	defer prov.Close()

	res, err := cl.PurchaseTokens(ctx, sale, round, vault, lamports)
	if err != nil {
		return err
	}

	log.Info(ctx, "Tokens purchased",
		z.Str("contributed_sol", solutil.LamportsToSol(lamports).String()),
		z.Str("tokens", solutil.AmountToDecimal(res.Tokens, launchpad.TokenDecimals).String()),
		z.Str("vesting", res.Vesting.String()),
		z.Str("signature", res.Signature.String()),
	)

	return nil
}
