// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/provider"
	"github.com/padfi/launchpad-go/solutil"
	"github.com/padfi/launchpad-go/solutil/keystore"
)

type balanceConfig struct {
	clientConfig

	Address string
}

func newBalanceCmd(runFunc func(context.Context, io.Writer, balanceConfig) error) *cobra.Command {
	var conf balanceConfig

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print a wallet balance",
		Long:  "Balance prints the SOL balance of the configured wallet, or of another address.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.Context(), cmd.OutOrStdout(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf.clientConfig)
	cmd.Flags().StringVar(&conf.Address, "address", "", "Address to query. Defaults to the configured wallet address.")

	return cmd
}

func runBalance(ctx context.Context, w io.Writer, conf balanceConfig) error {
	ctx, prov, err := setupProvider(ctx, conf.clientConfig)
	if err != nil {
		return err
	}
	defer prov.Close()

	addr := prov.Address()
	if conf.Address != "" {
		addr, err = solana.PublicKeyFromBase58(conf.Address)
		if err != nil {
			return errors.Wrap(err, "parse address flag")
		}
	}

	lamports, err := prov.Balance(ctx, addr)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "%s: %s SOL\n", addr, solutil.LamportsToSol(lamports))

	return nil
}

type airdropConfig struct {
	clientConfig

	Amount    string
	Recipient string
}

func newAirdropCmd(runFunc func(context.Context, airdropConfig) error) *cobra.Command {
	var conf airdropConfig

	cmd := &cobra.Command{
		Use:   "airdrop",
		Short: "Request an airdrop of test SOL",
		Long:  "Airdrop requests test SOL from the cluster faucet and awaits confirmation. Only local and development clusters fund airdrops.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.Context(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf.clientConfig)
	bindAirdropFlags(cmd.Flags(), &conf)

	return cmd
}

func bindAirdropFlags(flags *pflag.FlagSet, config *airdropConfig) {
	flags.StringVar(&config.Amount, "amount", "1", "Amount of SOL to request")
	flags.StringVar(&config.Recipient, "recipient", "", "Recipient address. Defaults to the configured wallet address.")
}

func runAirdrop(ctx context.Context, conf airdropConfig) error {
	lamports, err := solFlag(conf.Amount, "amount")
	if err != nil {
		return err
	}

	ctx, prov, err := setupProvider(ctx, conf.clientConfig)
	if err != nil {
		return err
	}
	defer prov.Close()

	recipient := prov.Address()
	if conf.Recipient != "" {
		recipient, err = solana.PublicKeyFromBase58(conf.Recipient)
		if err != nil {
			return errors.Wrap(err, "parse recipient flag")
		}
	}

	sig, err := prov.Airdrop(ctx, recipient, lamports)
	if err != nil {
		return err
	}

	log.Info(ctx, "Airdrop confirmed",
		z.Str("recipient", recipient.String()),
		z.Str("amount_sol", solutil.LamportsToSol(lamports).String()),
		z.Str("signature", sig.String()))

	return nil
}

type createWalletConfig struct {
	Path string
}

func newCreateWalletCmd(runFunc func(io.Writer, createWalletConfig) error) *cobra.Command {
	var conf createWalletConfig

	cmd := &cobra.Command{
		Use:   "create-wallet",
		Short: "Create a new wallet keypair",
		Long:  "Creates a new random wallet keypair and stores it to disk in solana-keygen format, interchangeable with the standard Solana tooling.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.OutOrStdout(), conf)
		},
	}

	cmd.Flags().StringVar(&conf.Path, "wallet", provider.FromEnv().WalletPath, "Path the new keypair file is written to. Refuses to overwrite an existing file.")

	return cmd
}

func runCreateWallet(w io.Writer, conf createWalletConfig) error {
	key, err := keystore.Generate(conf.Path)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Created wallet keypair: %s\n", conf.Path)
	_, _ = fmt.Fprintf(w, "Address: %s\n", key.PublicKey())

	return nil
}
