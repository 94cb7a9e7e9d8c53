// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/forkjoin"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/launchpad"
)

type claimConfig struct {
	clientConfig

	Sale    string
	Vesting string
	Vault   string
	All     bool
}

// newClaimCmd returns the claim command.
func newClaimCmd(runFunc func(context.Context, claimConfig) error) *cobra.Command {
	var conf claimConfig

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim vested tokens",
		Long:  "Transfers the vested portion of a purchased allocation from the sale vault to the wallet's token account. Use --all to claim every vesting schedule of the wallet.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if conf.All && conf.Vesting != "" {
				return errors.New("flags --vesting and --all are mutually exclusive")
			}

			return runFunc(cmd.Context(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf.clientConfig)
	bindClaimFlags(cmd.Flags(), &conf)

	return cmd
}

func bindClaimFlags(flags *pflag.FlagSet, config *claimConfig) {
	flags.StringVar(&config.Sale, "sale", "", "Address of the token sale account")
	flags.StringVar(&config.Vesting, "vesting", "", "Address of the vesting schedule account to claim from")
	flags.StringVar(&config.Vault, "vault", "", "Address of the vault account holding the sold tokens")
	flags.BoolVar(&config.All, "all", false, "Claim all vesting schedules of the wallet instead of a single one")
}

func runClaim(ctx context.Context, conf claimConfig) error {
	sale, err := pubkeyFlag(conf.Sale, "sale")
	if err != nil {
		return err
	}

	vault, err := pubkeyFlag(conf.Vault, "vault")
	if err != nil {
		return err
	}

	ctx, cl, prov, err := setupClient(ctx, conf.clientConfig)
	if err != nil {
		return err
	}
	defer prov.Close()

	if conf.All {
		return claimAll(ctx, cl, prov.Address(), sale, vault)
	}

	vesting, err := pubkeyFlag(conf.Vesting, "vesting")
	if err != nil {
		return err
	}

	sig, err := cl.ClaimTokens(ctx, sale, vesting, vault)
	if err != nil {
		return err
	}

	log.Info(ctx, "Vested tokens claimed",
		z.Str("vesting", vesting.String()),
		z.Str("signature", sig.String()),
	)

	return nil
}

// claimAll claims every vesting schedule of the investor concurrently,
// skipping schedules with nothing claimable yet.
func claimAll(ctx context.Context, cl *launchpad.Client, investor, sale, vault solana.PublicKey) error {
	entries, err := cl.ListVestingSchedules(ctx, investor)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		log.Info(ctx, "No vesting schedules found", z.Str("investor", investor.String()))
		return nil
	}

	work := func(ctx context.Context, entry launchpad.VestingEntry) (solana.Signature, error) {
		sig, err := cl.ClaimTokens(ctx, sale, entry.Address, vault)
		if errors.Is(err, launchpad.ErrVestingNotStarted) || errors.Is(err, launchpad.ErrNothingToClaim) {
			log.Debug(ctx, "Skipping vesting schedule", z.Str("vesting", entry.Address.String()), z.Str("reason", err.Error()))
			return solana.Signature{}, nil
		}

		return sig, err
	}

	results, cancel := forkjoin.NewWithInputs(ctx, work, entries, forkjoin.WithoutFailFast())
	defer cancel()

	var claimed int

	var firstErr error
	for res := range results {
		if res.Err != nil {
			log.Error(ctx, "Claim failed", res.Err, z.Str("vesting", res.Input.Address.String()))

			if firstErr == nil {
				firstErr = res.Err
			}

			continue
		}

		if res.Output == (solana.Signature{}) {
			continue // Nothing claimable yet.
		}

		claimed++

		log.Info(ctx, "Vested tokens claimed",
			z.Str("vesting", res.Input.Address.String()),
			z.Str("signature", res.Output.String()),
		)
	}

	log.Info(ctx, "Claim sweep done",
		z.Int("schedules", len(entries)),
		z.Int("claimed", claimed),
	)

	return firstErr
}
