// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/launchpad"
	"github.com/padfi/launchpad-go/solutil"
)

type addRoundConfig struct {
	clientConfig

	Sale     string
	Price    string
	Tokens   string
	Min      string
	Max      string
	Start    string
	End      string
	Duration time.Duration
}

// newAddRoundCmd returns the add-round command.
func newAddRoundCmd(runFunc func(context.Context, addRoundConfig) error) *cobra.Command {
	var conf addRoundConfig

	cmd := &cobra.Command{
		Use:   "add-round",
		Short: "Add a sale round to a token sale",
		Long:  "Adds a pricing round to a registered token sale. Rounds start inactive, activate them with activate-round.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.Context(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf.clientConfig)
	bindAddRoundFlags(cmd.Flags(), &conf)

	return cmd
}

func bindAddRoundFlags(flags *pflag.FlagSet, config *addRoundConfig) {
	flags.StringVar(&config.Sale, "sale", "", "Address of the token sale account")
	flags.StringVar(&config.Price, "price", "", "Price per whole token, in SOL")
	flags.StringVar(&config.Tokens, "tokens", "", "Number of whole tokens available in the round")
	flags.StringVar(&config.Min, "min-contribution", "0.000000001", "Minimum contribution per purchase, in SOL")
	flags.StringVar(&config.Max, "max-contribution", "1000", "Maximum contribution per purchase, in SOL")
	flags.StringVar(&config.Start, "start", "", "Round opening time in RFC3339 format, defaults to now")
	flags.StringVar(&config.End, "end", "", "Round closing time in RFC3339 format, defaults to start plus duration")
	flags.DurationVar(&config.Duration, "duration", 24*time.Hour, "Round duration, used when end is not set")
}

func runAddRound(ctx context.Context, conf addRoundConfig) error {
	sale, err := pubkeyFlag(conf.Sale, "sale")
	if err != nil {
		return err
	}

	params, err := roundParams(conf)
	if err != nil {
		return err
	}

	ctx, cl, prov, err := setupClient(ctx, conf.clientConfig)
	if err != nil {
		return err
	}
	defer prov.Close()

	res, err := cl.AddSaleRound(ctx, sale, params)
	if err != nil {
		return err
	}

	log.Info(ctx, "Sale round added",
		z.Str("round", res.SaleRound.String()),
		z.Str("opens", params.StartTime.Format(time.RFC3339)),
		z.Str("closes", params.EndTime.Format(time.RFC3339)),
		z.Str("signature", res.Signature.String()),
	)

	return nil
}

// roundParams converts the flag values into sale round parameters.
func roundParams(conf addRoundConfig) (launchpad.RoundParams, error) {
	price, err := solFlag(conf.Price, "price")
	if err != nil {
		return launchpad.RoundParams{}, err
	}

	tokens, err := tokensFlag(conf.Tokens, "tokens")
	if err != nil {
		return launchpad.RoundParams{}, err
	}

	minC, err := solFlag(conf.Min, "min-contribution")
	if err != nil {
		return launchpad.RoundParams{}, err
	}

	maxC, err := solFlag(conf.Max, "max-contribution")
	if err != nil {
		return launchpad.RoundParams{}, err
	}

	start := time.Now()
	if conf.Start != "" {
		start, err = time.Parse(time.RFC3339, conf.Start)
		if err != nil {
			return launchpad.RoundParams{}, errors.Wrap(err, "parse start flag")
		}
	}

	end := start.Add(conf.Duration)
	if conf.End != "" {
		end, err = time.Parse(time.RFC3339, conf.End)
		if err != nil {
			return launchpad.RoundParams{}, errors.Wrap(err, "parse end flag")
		}
	}

	if !end.After(start) {
		return launchpad.RoundParams{}, errors.New("round end not after start",
			z.Str("start", start.Format(time.RFC3339)), z.Str("end", end.Format(time.RFC3339)))
	}

	return launchpad.RoundParams{
		PricePerToken:   price,
		TokensAvailable: tokens,
		MinContribution: minC,
		MaxContribution: maxC,
		StartTime:       start,
		EndTime:         end,
	}, nil
}

// tokensFlag parses a required whole token decimal flag value into base units.
func tokensFlag(value, name string) (uint64, error) {
	if value == "" {
		return 0, errors.New("required flag not set", z.Str("flag", name))
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, errors.Wrap(err, "parse token amount flag", z.Str("flag", name))
	}

	units, err := solutil.DecimalToAmount(d, launchpad.TokenDecimals)
	if err != nil {
		return 0, errors.Wrap(err, "convert token amount flag", z.Str("flag", name))
	}

	return units, nil
}

type activateRoundConfig struct {
	clientConfig

	Round string
}

// newActivateRoundCmd returns the activate-round command.
func newActivateRoundCmd(runFunc func(context.Context, activateRoundConfig) error) *cobra.Command {
	var conf activateRoundConfig

	cmd := &cobra.Command{
		Use:   "activate-round",
		Short: "Activate a sale round",
		Long:  "Activates an inactive sale round so it accepts purchases within its time window.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.Context(), conf)
		},
	}

	bindClientFlags(cmd.Flags(), &conf.clientConfig)
	cmd.Flags().StringVar(&conf.Round, "round", "", "Address of the sale round account")

	return cmd
}

func runActivateRound(ctx context.Context, conf activateRoundConfig) error {
	round, err := pubkeyFlag(conf.Round, "round")
	if err != nil {
		return err
	}

	ctx, cl, prov, err := setupClient(ctx, conf.clientConfig)
	if err != nil {
		return err
	}
	defer prov.Close()

	sig, err := cl.ActivateSaleRound(ctx, round)
	if err != nil {
		return err
	}

	log.Info(ctx, "Sale round activated",
		z.Str("round", round.String()),
		z.Str("signature", sig.String()),
	)

	return nil
}
