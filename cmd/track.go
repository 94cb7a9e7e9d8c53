// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/tracker"
)

func newTrackCmd(runFunc func(context.Context, tracker.Config) error) *cobra.Command {
	var conf tracker.Config

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Run the launchpad tracker daemon",
		Long:  "Starts the long-running tracker daemon that polls on-chain launchpad state, snapshots token sales to a local database and serves a monitoring API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := log.InitLogger(conf.Log); err != nil {
				return err
			}

			printLicense(cmd.Context())
			printFlags(cmd.Context(), cmd.Flags())

			return runFunc(cmd.Context(), conf)
		},
	}

	bindTrackFlags(cmd.Flags(), &conf)
	bindProviderFlags(cmd.Flags(), &conf.Provider)
	bindLogFlags(cmd.Flags(), &conf.Log)

	return cmd
}

func bindTrackFlags(flags *pflag.FlagSet, config *tracker.Config) {
	defaults := tracker.DefaultConfig()

	flags.StringVar(&config.MonitoringAddr, "monitoring-address", defaults.MonitoringAddr, "Listening address (ip and port) for the monitoring API (prometheus, readyz, sales)")
	flags.StringVar(&config.DBDir, "db-dir", "", "Directory for the sale snapshot database. Uses an in-memory database if empty.")
	flags.DurationVar(&config.PollInterval, "poll-interval", defaults.PollInterval, "Interval between launchpad state polls")
}
