// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package provider

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/solutil"
)

// Environment variables honored for compatibility with the anchor tooling.
const (
	EnvProviderURL = "ANCHOR_PROVIDER_URL"
	EnvWallet      = "ANCHOR_WALLET"
)

// Config configures a Provider.
type Config struct {
	// Endpoints are the JSON-RPC endpoints, the first is primary, the rest
	// are fallbacks tried in order when the primary is unreachable.
	Endpoints []string
	// WalletPath is the signing keypair file in solana-keygen format.
	WalletPath string
	// Commitment is the confirmation level transactions are awaited at,
	// one of processed, confirmed or finalized.
	Commitment string
	// Timeout bounds each RPC request.
	Timeout time.Duration
	// ConfirmTimeout bounds awaiting transaction confirmation.
	ConfirmTimeout time.Duration
	// RateLimit caps requests per second per endpoint, zero disables.
	RateLimit float64
}

// DefaultConfig returns the default configuration, targeting a local test
// validator like the anchor tooling does.
func DefaultConfig() Config {
	return Config{
		Endpoints:      []string{solutil.Localnet.RPC},
		WalletPath:     DefaultWalletPath(),
		Commitment:     string(rpc.CommitmentConfirmed),
		Timeout:        10 * time.Second,
		ConfirmTimeout: 90 * time.Second,
	}
}

// FromEnv returns the default configuration overridden by the
// ANCHOR_PROVIDER_URL and ANCHOR_WALLET environment variables.
func FromEnv() Config {
	conf := DefaultConfig()

	if url := os.Getenv(EnvProviderURL); url != "" {
		conf.Endpoints = []string{url}
	}

	if wallet := os.Getenv(EnvWallet); wallet != "" {
		conf.WalletPath = wallet
	}

	return conf
}

// DefaultWalletPath returns the standard solana CLI wallet location.
func DefaultWalletPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}

	return filepath.Join(home, ".config", "solana", "id.json")
}

// Verify returns an error if the configuration is unusable.
func (c Config) Verify() error {
	if len(c.Endpoints) == 0 {
		return errors.New("no rpc endpoints configured")
	}

	for _, e := range c.Endpoints {
		if e == "" {
			return errors.New("empty rpc endpoint")
		}
	}

	if c.WalletPath == "" {
		return errors.New("no wallet path configured")
	}

	if _, err := c.commitment(); err != nil {
		return err
	}

	return nil
}

func (c Config) commitment() (rpc.CommitmentType, error) {
	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
		return rpc.CommitmentType(c.Commitment), nil
	default:
		return "", errors.New("invalid commitment", z.Str("commitment", c.Commitment))
	}
}
