// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package tracker provides the launchpad tracker daemon. It polls token
// sale and sale round accounts from a Solana cluster at a fixed interval,
// persists observed sale snapshots to an embedded database and serves them,
// along with prometheus metrics and readiness, over a monitoring API.
//
// All processes and their dependencies are wired and added to the life
// cycle manager which handles starting and graceful shutdown.
package tracker

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/lifecycle"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/promauto"
	"github.com/padfi/launchpad-go/app/version"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/db"
	"github.com/padfi/launchpad-go/db/sales"
	"github.com/padfi/launchpad-go/launchpad"
	"github.com/padfi/launchpad-go/provider"
)

// Config configures the tracker daemon.
type Config struct {
	Provider       provider.Config
	Log            log.Config
	MonitoringAddr string
	DBDir          string
	PollInterval   time.Duration

	TestConfig TestConfig
}

// TestConfig defines additional test-only config.
type TestConfig struct {
	// Clock provides a fake clock for deterministic polling.
	Clock clockwork.Clock
	// PollCallback is called after every successful poll.
	PollCallback func()
}

// DefaultConfig returns the default tracker configuration.
func DefaultConfig() Config {
	return Config{
		Provider:       provider.DefaultConfig(),
		Log:            log.DefaultConfig(),
		MonitoringAddr: "127.0.0.1:3640",
		PollInterval:   15 * time.Second,
	}
}

// Run is the entrypoint for running a launchpad tracker instance.
func Run(ctx context.Context, conf Config) (err error) {
	ctx = log.WithTopic(ctx, "tracker")
	defer func() {
		if err != nil {
			log.Error(ctx, "Fatal run error", err)
		}
	}()

	_, _ = maxprocs.Set()

	if err := log.InitLogger(conf.Log); err != nil {
		return err
	}

	version.LogVersion(ctx, "Launchpad tracker starting")

	if conf.PollInterval <= 0 {
		return errors.New("invalid poll interval")
	}

	prov, err := provider.New(conf.Provider)
	if err != nil {
		return err
	}

	cluster, err := prov.Connect(ctx)
	if err != nil {
		return err
	}

	program, err := prov.ResolveProgram(ctx, launchpad.ProgramName)
	if err != nil {
		return err
	}

	registry, err := promauto.NewRegistry(prometheus.Labels{
		"cluster": cluster.Name,
		"program": program.String(),
	})
	if err != nil {
		return err
	}

	bdb, err := db.New(conf.DBDir)
	if err != nil {
		return err
	}

	if conf.DBDir == "" {
		log.Info(ctx, "Using in-memory database, snapshots not persisted across restarts")
	} else {
		log.Info(ctx, "Opened snapshot database", z.Str("dir", conf.DBDir))
	}

	clock := conf.TestConfig.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	store := sales.New(bdb)
	poller := newPoller(launchpad.NewClient(prov), store, conf.PollInterval, clock, conf.TestConfig.PollCallback)

	life := new(lifecycle.Manager)

	wireMonitoringAPI(life, conf.MonitoringAddr, registry, store, poller)

	life.RegisterStart(lifecycle.AsyncBackground, lifecycle.StartPoller, lifecycle.HookFuncErr(poller.Run))
	life.RegisterStop(lifecycle.StopPoller, lifecycle.HookFuncMin(poller.Stop))
	life.RegisterStop(lifecycle.StopProvider, lifecycle.HookFuncErr(prov.Close))
	life.RegisterStop(lifecycle.StopDatabase, lifecycle.HookFuncErr(bdb.Close))

	log.Info(ctx, "Tracker wired",
		z.Str("monitoring_addr", conf.MonitoringAddr),
		z.Str("poll_interval", conf.PollInterval.String()),
	)

	return life.Run(ctx)
}
