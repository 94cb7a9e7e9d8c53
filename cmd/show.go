// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/launchpad"
	"github.com/padfi/launchpad-go/solutil"
)

type showConfig struct {
	clientConfig

	Address string
	JSON    bool
}

func newShowCmd(runFunc func(context.Context, io.Writer, showConfig) error) *cobra.Command {
	var conf showConfig

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print an on-chain launchpad account",
		Long:  "Show fetches a launchpad program account by address, detects its type from the account discriminator and prints the decoded state.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.Context(), cmd.OutOrStdout(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf.clientConfig)
	bindShowFlags(cmd.Flags(), &conf)

	return cmd
}

func bindShowFlags(flags *pflag.FlagSet, config *showConfig) {
	flags.StringVar(&config.Address, "address", "", "Address of the account to show")
	flags.BoolVar(&config.JSON, "json", false, "Print the account as JSON instead of human readable text")
}

func runShow(ctx context.Context, w io.Writer, conf showConfig) error {
	addr, err := pubkeyFlag(conf.Address, "address")
	if err != nil {
		return err
	}

	ctx, prov, err := setupProvider(ctx, conf.clientConfig)
	if err != nil {
		return err
	}
	defer prov.Close()

	data, err := prov.AccountData(ctx, addr)
	if err != nil {
		return err
	}

	kind, account, err := decodeAnyAccount(data)
	if err != nil {
		return err
	}

	if conf.JSON {
		return printAccountJSON(w, addr, kind, account)
	}

	printAccount(w, addr, account)

	return nil
}

// decodeAnyAccount decodes the raw account data into the account type
// matching its discriminator prefix.
func decodeAnyAccount(data []byte) (string, any, error) {
	decoders := []struct {
		Kind   string
		Decode func([]byte) (any, error)
	}{
		{"launchpad", func(data []byte) (any, error) { return launchpad.DecodeLaunchpad(data) }},
		{"token_sale", func(data []byte) (any, error) { return launchpad.DecodeTokenSale(data) }},
		{"sale_round", func(data []byte) (any, error) { return launchpad.DecodeSaleRound(data) }},
		{"vesting_schedule", func(data []byte) (any, error) { return launchpad.DecodeVestingSchedule(data) }},
	}

	for _, decoder := range decoders {
		account, err := decoder.Decode(data)
		if errors.Is(err, launchpad.ErrAccountMismatch) {
			continue
		} else if err != nil {
			return "", nil, err
		}

		return decoder.Kind, account, nil
	}

	return "", nil, errors.New("not a launchpad program account")
}

func printAccountJSON(w io.Writer, addr solana.PublicKey, kind string, account any) error {
	resp := struct {
		Address solana.PublicKey `json:"address"`
		Kind    string           `json:"kind"`
		Account any              `json:"account"`
	}{
		Address: addr,
		Kind:    kind,
		Account: account,
	}

	b, err := json.MarshalIndent(resp, "", " ")
	if err != nil {
		return errors.Wrap(err, "marshal account")
	}

	_, _ = fmt.Fprintln(w, string(b))

	return nil
}

func printAccount(w io.Writer, addr solana.PublicKey, account any) {
	switch acc := account.(type) {
	case launchpad.Launchpad:
		_, _ = fmt.Fprintf(w, "Launchpad %s\n", addr)
		_, _ = fmt.Fprintf(w, "  Admin:          %s\n", acc.Admin)
		_, _ = fmt.Fprintf(w, "  Total projects: %d\n", acc.TotalProjects)
	case launchpad.TokenSale:
		_, _ = fmt.Fprintf(w, "Token sale %s\n", addr)
		_, _ = fmt.Fprintf(w, "  Registrant:   %s\n", acc.Registrant)
		_, _ = fmt.Fprintf(w, "  Token mint:   %s\n", acc.TokenMint)
		_, _ = fmt.Fprintf(w, "  Soft cap:     %s SOL\n", solutil.LamportsToSol(acc.SoftCap))
		_, _ = fmt.Fprintf(w, "  Hard cap:     %s SOL\n", solutil.LamportsToSol(acc.HardCap))
		_, _ = fmt.Fprintf(w, "  Total raised: %s SOL\n", solutil.LamportsToSol(acc.TotalRaised))
		_, _ = fmt.Fprintf(w, "  Active:       %v\n", acc.IsActive)
	case launchpad.SaleRound:
		_, _ = fmt.Fprintf(w, "Sale round %s\n", addr)
		_, _ = fmt.Fprintf(w, "  Price per token:  %s SOL\n", solutil.LamportsToSol(acc.PricePerToken))
		_, _ = fmt.Fprintf(w, "  Tokens available: %s\n", solutil.AmountToDecimal(acc.TokensAvailable, launchpad.TokenDecimals))
		_, _ = fmt.Fprintf(w, "  Tokens sold:      %s\n", solutil.AmountToDecimal(acc.TokensSold, launchpad.TokenDecimals))
		_, _ = fmt.Fprintf(w, "  Min contribution: %s SOL\n", solutil.LamportsToSol(acc.MinContribution))
		_, _ = fmt.Fprintf(w, "  Max contribution: %s SOL\n", solutil.LamportsToSol(acc.MaxContribution))
		_, _ = fmt.Fprintf(w, "  Opens:            %s\n", acc.Start().UTC().Format(time.RFC3339))
		_, _ = fmt.Fprintf(w, "  Closes:           %s\n", acc.End().UTC().Format(time.RFC3339))
		_, _ = fmt.Fprintf(w, "  Active:           %v\n", acc.IsActive)
	case launchpad.VestingSchedule:
		_, _ = fmt.Fprintf(w, "Vesting schedule %s\n", addr)
		_, _ = fmt.Fprintf(w, "  Investor:         %s\n", acc.Investor)
		_, _ = fmt.Fprintf(w, "  Total allocation: %s\n", solutil.AmountToDecimal(acc.TotalAllocation, launchpad.TokenDecimals))
		_, _ = fmt.Fprintf(w, "  Released:         %s\n", solutil.AmountToDecimal(acc.Released, launchpad.TokenDecimals))
		_, _ = fmt.Fprintf(w, "  Starts:           %s\n", acc.Start().UTC().Format(time.RFC3339))
		_, _ = fmt.Fprintf(w, "  Ends:             %s\n", acc.End().UTC().Format(time.RFC3339))
	}
}
