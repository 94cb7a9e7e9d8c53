// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/launchpad"
)

func TestClaimableAmount(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	day := int64(86400)

	vesting := launchpad.VestingSchedule{
		TotalAllocation: 30_000_000_000,
		Released:        0,
		StartTime:       start.Unix(),
		Duration:        uint64(30 * day),
	}

	t.Run("before start", func(t *testing.T) {
		_, err := vesting.ClaimableAmount(start.Add(-time.Second))
		require.ErrorIs(t, err, launchpad.ErrVestingNotStarted)
	})

	t.Run("at start", func(t *testing.T) {
		_, err := vesting.ClaimableAmount(start)
		require.ErrorIs(t, err, launchpad.ErrNothingToClaim)
	})

	t.Run("ten days in", func(t *testing.T) {
		got, err := vesting.ClaimableAmount(start.Add(10 * 24 * time.Hour))
		require.NoError(t, err)
		require.Equal(t, uint64(10_000_000_000), got)
	})

	// Before the duration elapsed the claimable amount does not subtract
	// what was already released, matching the program's payout exactly.
	t.Run("ten days in after release", func(t *testing.T) {
		released := vesting
		released.Released = 5_000_000_000

		got, err := released.ClaimableAmount(start.Add(10 * 24 * time.Hour))
		require.NoError(t, err)
		require.Equal(t, uint64(10_000_000_000), got)
	})

	t.Run("fully vested", func(t *testing.T) {
		released := vesting
		released.Released = 5_000_000_000

		got, err := released.ClaimableAmount(start.Add(30 * 24 * time.Hour))
		require.NoError(t, err)
		require.Equal(t, uint64(25_000_000_000), got)
		require.True(t, released.FullyVestedAt(start.Add(30*24*time.Hour)))
		require.False(t, released.FullyVestedAt(start))
	})

	t.Run("fully vested nothing left", func(t *testing.T) {
		drained := vesting
		drained.Released = drained.TotalAllocation

		_, err := drained.ClaimableAmount(start.Add(31 * 24 * time.Hour))
		require.ErrorIs(t, err, launchpad.ErrNothingToClaim)
	})

	t.Run("over released", func(t *testing.T) {
		over := vesting
		over.Released = over.TotalAllocation + 1

		_, err := over.ClaimableAmount(start.Add(31 * 24 * time.Hour))
		require.ErrorContains(t, err, "released exceeds allocation")
	})

	t.Run("arithmetic overflow", func(t *testing.T) {
		huge := launchpad.VestingSchedule{
			TotalAllocation: 1 << 30,
			StartTime:       start.Unix() - (1 << 41),
			Duration:        1 << 42,
		}

		_, err := huge.ClaimableAmount(start)
		require.ErrorContains(t, err, "vested amount overflows")
	})
}

func TestRemaining(t *testing.T) {
	vesting := launchpad.VestingSchedule{TotalAllocation: 100, Released: 40}
	require.Equal(t, uint64(60), vesting.Remaining())

	vesting.Released = 150
	require.Equal(t, uint64(0), vesting.Remaining())
}
