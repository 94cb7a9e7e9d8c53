// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad

import (
	"math/bits"
	"time"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

// VestingDuration is the fixed vesting period the program assigns to every
// purchase.
const VestingDuration = 30 * 24 * time.Hour

// ClaimableAmount returns the amount a claim_tokens invocation at time now
// would release, applying the program's arithmetic exactly: once the duration
// elapsed the unreleased remainder, before that total * elapsed / duration
// regardless of what was already released. It returns the typed error the
// transaction would fail with instead.
func (v VestingSchedule) ClaimableAmount(now time.Time) (uint64, error) {
	elapsed := now.Unix() - v.StartTime
	if elapsed < 0 {
		return 0, errors.Wrap(ErrVestingNotStarted, "claimable",
			z.I64("start_time", v.StartTime))
	}

	var amount uint64

	if elapsed >= int64(v.Duration) {
		var borrow uint64

		amount, borrow = bits.Sub64(v.TotalAllocation, v.Released, 0)
		if borrow != 0 {
			// Over-released schedule, the subtraction aborts on-chain.
			return 0, errors.New("released exceeds allocation",
				z.U64("released", v.Released), z.U64("allocation", v.TotalAllocation))
		}
	} else {
		if v.Duration == 0 {
			return 0, errors.New("zero vesting duration")
		}

		hi, lo := bits.Mul64(v.TotalAllocation, uint64(elapsed))
		if hi != 0 {
			// The program computes in 64 bits, this claim aborts on-chain.
			return 0, errors.New("vested amount overflows",
				z.U64("allocation", v.TotalAllocation), z.I64("elapsed", elapsed))
		}

		amount = lo / v.Duration
	}

	if amount == 0 {
		return 0, errors.Wrap(ErrNothingToClaim, "claimable")
	}

	return amount, nil
}

// Remaining returns the unreleased portion of the allocation, saturating at
// zero for over-released schedules.
func (v VestingSchedule) Remaining() uint64 {
	if v.Released >= v.TotalAllocation {
		return 0
	}

	return v.TotalAllocation - v.Released
}

// FullyVestedAt reports whether the whole allocation is vested at time now.
func (v VestingSchedule) FullyVestedAt(now time.Time) bool {
	elapsed := now.Unix() - v.StartTime

	return elapsed >= 0 && elapsed >= int64(v.Duration)
}
