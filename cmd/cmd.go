// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package cmd implements the launchpad command line interface.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/launchpad"
	"github.com/padfi/launchpad-go/provider"
	"github.com/padfi/launchpad-go/tracker"
)

const (
	// The name of our config file, without the file extension because
	// viper supports many different config file languages.
	defaultConfigFilename = "launchpad"

	// The environment variable prefix of all environment variables bound to our command line flags.
	envPrefix = "launchpad"
)

// New returns a new root cobra command that handles our command line tool.
func New() *cobra.Command {
	return newRootCmd(
		newVersionCmd(runVersionCmd),
		newInitializeCmd(runInitialize),
		newRegisterCmd(runRegister),
		newAddRoundCmd(runAddRound),
		newActivateRoundCmd(runActivateRound),
		newPurchaseCmd(runPurchase),
		newClaimCmd(runClaim),
		newShowCmd(runShow),
		newBalanceCmd(runBalance),
		newAirdropCmd(runAirdrop),
		newCreateWalletCmd(runCreateWallet),
		newTrackCmd(tracker.Run),
	)
}

func newRootCmd(cmds ...*cobra.Command) *cobra.Command {
	root := &cobra.Command{
		Use:   "launchpad",
		Short: "Launchpad - Solana token sale client",
		Long:  `Launchpad registers token sales, runs sale rounds and vests purchased allocations on a Solana cluster. This client submits program transactions, inspects on-chain state and tracks live sales.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeConfig(cmd)
		},
	}

	root.AddCommand(cmds...)
	root.SilenceUsage = true // Disable usage output on error.

	return root
}

// initializeConfig sets up the general viper config and binds the cobra flags to the viper flags.
func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	v.SetConfigName(defaultConfigFilename)
	v.AddConfigPath(".")

	// Attempt to read the config file, gracefully ignoring errors
	// caused by a config file not being found. Return an error
	// if we cannot parse the config file.
	var cfgError viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &cfgError) {
		return errors.Wrap(err, "read config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return bindFlags(cmd, v)
}

// bindFlags binds each cobra flag to its associated viper configuration (config file and environment variable).
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Cobra provided flags take priority.
		if f.Changed {
			return
		}

		if !v.IsSet(f.Name) {
			return
		}

		val := v.Get(f.Name)

		err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		if err != nil {
			lastErr = errors.Wrap(err, "set flag from config", z.Str("flag", f.Name))
		}
	})

	return lastErr
}

// clientConfig groups the configuration all transaction and query commands
// share; how to log, which node to talk to and which wallet signs.
type clientConfig struct {
	Log      log.Config
	Provider provider.Config
}

func bindClientFlags(flags *pflag.FlagSet, config *clientConfig) {
	bindLogFlags(flags, &config.Log)
	bindProviderFlags(flags, &config.Provider)
}

func bindLogFlags(flags *pflag.FlagSet, config *log.Config) {
	defaults := log.DefaultConfig()

	flags.StringVar(&config.Format, "log-format", defaults.Format, "Log format; console, logfmt or json")
	flags.StringVar(&config.Level, "log-level", defaults.Level, "Log level; debug, info, warn or error")
	flags.StringVar(&config.Color, "log-color", "auto", "Log color; auto, force, disable")
}

func bindProviderFlags(flags *pflag.FlagSet, config *provider.Config) {
	defaults := provider.FromEnv()

	flags.StringSliceVar(&config.Endpoints, "rpc-endpoints", defaults.Endpoints, "Comma separated list of JSON-RPC endpoints. The first is primary, the rest are fallbacks. Defaults to ANCHOR_PROVIDER_URL or the local test validator.")
	flags.StringVar(&config.WalletPath, "wallet", defaults.WalletPath, "Path to the signing keypair file in solana-keygen format. Defaults to ANCHOR_WALLET or the solana cli default keypair.")
	flags.StringVar(&config.Commitment, "commitment", defaults.Commitment, "Commitment level transactions are awaited at; processed, confirmed or finalized")
	flags.DurationVar(&config.Timeout, "rpc-timeout", defaults.Timeout, "Timeout of a single RPC request")
	flags.DurationVar(&config.ConfirmTimeout, "confirm-timeout", defaults.ConfirmTimeout, "Timeout awaiting transaction confirmation")
	flags.Float64Var(&config.RateLimit, "rpc-rate-limit", defaults.RateLimit, "Maximum RPC requests per second per endpoint, zero disables")
}

// setupProvider initialises logging and returns a provider connected to the
// configured cluster. Callers must close the returned provider.
func setupProvider(ctx context.Context, conf clientConfig) (context.Context, *provider.Provider, error) {
	if err := log.InitLogger(conf.Log); err != nil {
		return nil, nil, err
	}

	ctx = log.WithTopic(ctx, "cmd")

	prov, err := provider.New(conf.Provider)
	if err != nil {
		return nil, nil, err
	}

	if _, err := prov.Connect(ctx); err != nil {
		return nil, nil, err
	}

	return ctx, prov, nil
}

// setupClient is setupProvider plus a program client, with the program
// resolved as a deployment check. Callers must close the returned provider.
func setupClient(ctx context.Context, conf clientConfig) (context.Context, *launchpad.Client, *provider.Provider, error) {
	ctx, prov, err := setupProvider(ctx, conf)
	if err != nil {
		return nil, nil, nil, err
	}

	if _, err := prov.ResolveProgram(ctx, launchpad.ProgramName); err != nil {
		return nil, nil, nil, err
	}

	return ctx, launchpad.NewClient(prov), prov, nil
}

// printFlags INFO logs all the given flags in alphabetical order.
func printFlags(ctx context.Context, flags *pflag.FlagSet) {
	log.Info(ctx, "Parsed config", flagsToLogFields(flags)...)
}

// printLicense INFO logs the license notice.
func printLicense(ctx context.Context) {
	log.Info(ctx, "This software is licensed under the Business Source License 1.1, see the LICENSE file for details")
}

// flagsToLogFields converts the given flags to log fields.
func flagsToLogFields(flags *pflag.FlagSet) []z.Field {
	var fields []z.Field

	flags.VisitAll(func(flag *pflag.Flag) {
		val := redact(flag.Name, flag.Value.String())

		if sliceVal, ok := flag.Value.(pflag.SliceValue); ok {
			var vals []string
			for _, s := range sliceVal.GetSlice() {
				vals = append(vals, redact(flag.Name, s))
			}

			val = "[" + strings.Join(vals, ",") + "]"
		}

		fields = append(fields, z.Str(flag.Name, val))
	})

	return fields
}

// redact returns a redacted version of the given flag value. It redacts
// passwords in valid URLs provided in endpoint and address flags.
func redact(flag, val string) string {
	if !strings.Contains(flag, "endpoint") && !strings.Contains(flag, "address") {
		return val
	}

	u, err := url.Parse(val)
	if err != nil {
		return val
	}

	return u.Redacted()
}
