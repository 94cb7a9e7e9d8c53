// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package testutil provides random fixtures and golden file helpers for
// tests.
package testutil

import (
	"crypto/rand"
	mrand "math/rand"
	"net"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/launchpad"
)

// AvailableAddr returns an available local tcp address.
func AvailableAddr(t *testing.T) *net.TCPAddr {
	t.Helper()

	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer l.Close()

	addr, err := net.ResolveTCPAddr(l.Addr().Network(), l.Addr().String())
	require.NoError(t, err)

	return addr
}

// RandomKeypair returns a random ed25519 keypair.
func RandomKeypair(t *testing.T) solana.PrivateKey {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	return key
}

// RandomPubkey returns a random public key.
func RandomPubkey(t *testing.T) solana.PublicKey {
	t.Helper()

	return RandomKeypair(t).PublicKey()
}

// RandomHash returns a random 32 byte hash.
func RandomHash(t *testing.T) solana.Hash {
	t.Helper()

	var h solana.Hash
	_, err := rand.Read(h[:])
	require.NoError(t, err)

	return h
}

// RandomSignature returns a random 64 byte signature.
func RandomSignature(t *testing.T) solana.Signature {
	t.Helper()

	var sig solana.Signature
	_, err := rand.Read(sig[:])
	require.NoError(t, err)

	return sig
}

// RandomLaunchpad returns a random launchpad state account.
func RandomLaunchpad(t *testing.T) launchpad.Launchpad {
	t.Helper()

	return launchpad.Launchpad{
		Admin:         RandomPubkey(t),
		TotalProjects: randUint64(1000),
	}
}

// RandomTokenSale returns a random active token sale account.
func RandomTokenSale(t *testing.T) launchpad.TokenSale {
	t.Helper()

	softCap := 1 + randUint64(1e12)

	return launchpad.TokenSale{
		Registrant:  RandomPubkey(t),
		TokenMint:   RandomPubkey(t),
		SoftCap:     softCap,
		HardCap:     softCap * 10,
		TotalRaised: randUint64(softCap),
		IsActive:    true,
	}
}

// RandomSaleRound returns a random sale round open around the given time.
func RandomSaleRound(t *testing.T, now time.Time) launchpad.SaleRound {
	t.Helper()

	return launchpad.SaleRound{
		PricePerToken:   1 + randUint64(1e9),
		TokensAvailable: 1e15,
		TokensSold:      randUint64(1e12),
		MinContribution: 1,
		MaxContribution: 1e12,
		StartTime:       now.Add(-time.Hour).Unix(),
		EndTime:         now.Add(time.Hour).Unix(),
		IsActive:        true,
	}
}

// RandomVestingSchedule returns a random vesting schedule started at the
// given time.
func RandomVestingSchedule(t *testing.T, investor solana.PublicKey, start time.Time) launchpad.VestingSchedule {
	t.Helper()

	return launchpad.VestingSchedule{
		Investor:        investor,
		TotalAllocation: 1 + randUint64(1e15),
		Released:        0,
		StartTime:       start.Unix(),
		Duration:        uint64(launchpad.VestingDuration / time.Second),
	}
}

func randUint64(max uint64) uint64 {
	return mrand.Uint64() % max
}
