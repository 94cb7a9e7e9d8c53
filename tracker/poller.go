// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/db/sales"
	"github.com/padfi/launchpad-go/launchpad"
)

// newPoller returns a new poller that periodically snapshots on-chain
// launchpad state into the store.
func newPoller(client *launchpad.Client, store sales.DB, interval time.Duration, clock clockwork.Clock, callback func()) *poller {
	return &poller{
		client:   client,
		store:    store,
		interval: interval,
		clock:    clock,
		callback: callback,
		quit:     make(chan struct{}),
	}
}

type poller struct {
	client   *launchpad.Client
	store    sales.DB
	interval time.Duration
	clock    clockwork.Clock
	callback func() // callback is called after every successful poll, only used in tests.
	quit     chan struct{}

	mu       sync.Mutex
	lastPoll time.Time
}

// Run blocks and polls the launchpad program until Stop is called.
func (p *poller) Run() error {
	ctx := log.WithTopic(context.Background(), "poller")

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-p.quit:
			return nil
		case <-ticker.Chan():
			p.poll(ctx)
		}
	}
}

// Stop stops the poller.
func (p *poller) Stop() {
	close(p.quit)
}

// Ready returns true if the last successful poll is recent enough to
// consider the tracker healthy.
func (p *poller) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastPoll.IsZero() {
		return false
	}

	return time.Since(p.lastPoll) < 3*p.interval
}

// poll performs a single poll, instrumenting the result.
func (p *poller) poll(ctx context.Context) {
	t0 := time.Now()

	err := p.pollOnce(ctx)
	pollDuration.Observe(time.Since(t0).Seconds())

	if err != nil {
		pollCounter.WithLabelValues("error").Inc()
		log.Error(ctx, "Polling launchpad state failed", err)

		return
	}

	pollCounter.WithLabelValues("ok").Inc()

	p.mu.Lock()
	p.lastPoll = time.Now()
	p.mu.Unlock()

	if p.callback != nil {
		p.callback()
	}
}

// pollOnce fetches all token sales and sale rounds, persists sale
// snapshots and refreshes the per-account gauges.
func (p *poller) pollOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	var (
		saleEntries  []launchpad.SaleEntry
		roundEntries []launchpad.RoundEntry
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		saleEntries, err = p.client.ListTokenSales(egCtx)

		return err
	})
	eg.Go(func() error {
		var err error
		roundEntries, err = p.client.ListSaleRounds(egCtx)

		return err
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	now := time.Now()

	raisedGauge.Reset()
	activeGauge.Reset()
	soldGauge.Reset()

	for _, entry := range saleEntries {
		addr := entry.Address.String()

		raisedGauge.WithLabelValues(addr).Set(float64(entry.Sale.TotalRaised))
		activeGauge.WithLabelValues(addr).Set(boolToGauge(entry.Sale.IsActive))

		err := p.store.Set(sales.Snapshot{
			Address:    entry.Address,
			Sale:       entry.Sale,
			ObservedAt: now,
		})
		if err != nil {
			return err
		}
	}

	for _, entry := range roundEntries {
		soldGauge.WithLabelValues(entry.Address.String()).Set(float64(entry.Round.TokensSold))
	}

	salesGauge.Set(float64(len(saleEntries)))
	roundsGauge.Set(float64(len(roundEntries)))

	log.Debug(ctx, "Polled launchpad state",
		z.Int("sales", len(saleEntries)),
		z.Int("rounds", len(roundEntries)),
	)

	return nil
}

func boolToGauge(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
