// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/solutil"
)

type registerConfig struct {
	clientConfig

	Launchpad string
	Mint      string
	SoftCap   string
	HardCap   string
}

// newRegisterCmd returns the register command.
func newRegisterCmd(runFunc func(context.Context, registerConfig) error) *cobra.Command {
	var conf registerConfig

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a token sale",
		Long:  "Registers a token sale for a mint under the launchpad with the wallet as registrant. Caps are denominated in SOL.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.Context(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf.clientConfig)
	bindRegisterFlags(cmd.Flags(), &conf)

	return cmd
}

func bindRegisterFlags(flags *pflag.FlagSet, config *registerConfig) {
	flags.StringVar(&config.Launchpad, "launchpad", "", "Address of the launchpad state account")
	flags.StringVar(&config.Mint, "mint", "", "Address of the token mint being sold")
	flags.StringVar(&config.SoftCap, "soft-cap", "", "Minimum raise for the sale to count as successful, in SOL")
	flags.StringVar(&config.HardCap, "hard-cap", "", "Maximum raise after which purchases are rejected, in SOL")
}

func runRegister(ctx context.Context, conf registerConfig) error {
	launchpadAcc, err := pubkeyFlag(conf.Launchpad, "launchpad")
	if err != nil {
		return err
	}

	mint, err := pubkeyFlag(conf.Mint, "mint")
	if err != nil {
		return err
	}

	softCap, err := solFlag(conf.SoftCap, "soft-cap")
	if err != nil {
		return err
	}

	hardCap, err := solFlag(conf.HardCap, "hard-cap")
	if err != nil {
		return err
	}

	ctx, cl, prov, err := setupClient(ctx, conf.clientConfig)
	if err != nil {
		return err
	}
	defer prov.Close()

	res, err := cl.RegisterToken(ctx, launchpadAcc, mint, softCap, hardCap)
	if err != nil {
		return err
	}

	log.Info(ctx, "Token sale registered",
		z.Str("sale", res.TokenSale.String()),
		z.Str("mint", mint.String()),
		z.Str("signature", res.Signature.String()),
	)

	return nil
}

// pubkeyFlag parses a required base58 public key flag value.
func pubkeyFlag(value, name string) (solana.PublicKey, error) {
	if value == "" {
		return solana.PublicKey{}, errors.New("required flag not set", z.Str("flag", name))
	}

	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "parse address flag", z.Str("flag", name))
	}

	return key, nil
}

// solFlag parses a required SOL decimal flag value into lamports.
func solFlag(value, name string) (uint64, error) {
	if value == "" {
		return 0, errors.New("required flag not set", z.Str("flag", name))
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, errors.Wrap(err, "parse amount flag", z.Str("flag", name))
	}

	lamports, err := solutil.SolToLamports(d)
	if err != nil {
		return 0, errors.Wrap(err, "convert amount flag", z.Str("flag", name))
	}

	return lamports, nil
}
