// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/launchpad"
)

func randomKey(t *testing.T) solana.PublicKey {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	return key.PublicKey()
}

func TestLaunchpadCodec(t *testing.T) {
	state := launchpad.Launchpad{
		Admin:         randomKey(t),
		TotalProjects: 42,
	}

	b, err := launchpad.EncodeLaunchpad(state)
	require.NoError(t, err)
	require.Len(t, b, launchpad.LaunchpadSize)

	got, err := launchpad.DecodeLaunchpad(b)
	require.NoError(t, err)
	require.Equal(t, state, got)
}

func TestTokenSaleCodec(t *testing.T) {
	sale := launchpad.TokenSale{
		Registrant:  randomKey(t),
		TokenMint:   randomKey(t),
		SoftCap:     1_000_000_000,
		HardCap:     5_000_000_000,
		TotalRaised: 1,
		IsActive:    true,
	}

	b, err := launchpad.EncodeTokenSale(sale)
	require.NoError(t, err)
	require.Len(t, b, launchpad.TokenSaleSize)

	got, err := launchpad.DecodeTokenSale(b)
	require.NoError(t, err)
	require.Equal(t, sale, got)
}

func TestSaleRoundCodec(t *testing.T) {
	round := launchpad.SaleRound{
		PricePerToken:   2_000_000_000,
		TokensAvailable: 10_000_000_000,
		TokensSold:      3,
		MinContribution: 100,
		MaxContribution: 1_000_000_000,
		StartTime:       1_700_000_000,
		EndTime:         1_700_086_400,
		IsActive:        true,
	}

	b, err := launchpad.EncodeSaleRound(round)
	require.NoError(t, err)
	require.Len(t, b, launchpad.SaleRoundSize)

	got, err := launchpad.DecodeSaleRound(b)
	require.NoError(t, err)
	require.Equal(t, round, got)
	require.Equal(t, round.StartTime, got.Start().Unix())
	require.Equal(t, round.EndTime, got.End().Unix())
}

func TestVestingScheduleCodec(t *testing.T) {
	vesting := launchpad.VestingSchedule{
		Investor:        randomKey(t),
		TotalAllocation: 1_000_000_000,
		Released:        5,
		StartTime:       1_700_000_000,
		Duration:        30 * 86400,
	}

	b, err := launchpad.EncodeVestingSchedule(vesting)
	require.NoError(t, err)
	require.Len(t, b, launchpad.VestingScheduleSize)

	got, err := launchpad.DecodeVestingSchedule(b)
	require.NoError(t, err)
	require.Equal(t, vesting, got)
	require.Equal(t, vesting.StartTime+int64(vesting.Duration), got.End().Unix())
}

func TestDecodeMismatch(t *testing.T) {
	b, err := launchpad.EncodeTokenSale(launchpad.TokenSale{Registrant: randomKey(t)})
	require.NoError(t, err)

	// A token sale does not decode as a launchpad account.
	_, err = launchpad.DecodeLaunchpad(b)
	require.ErrorIs(t, err, launchpad.ErrAccountMismatch)

	_, err = launchpad.DecodeLaunchpad(nil)
	require.ErrorContains(t, err, "account data too short")

	_, err = launchpad.DecodeLaunchpad([]byte{1, 2, 3})
	require.ErrorContains(t, err, "account data too short")
}
