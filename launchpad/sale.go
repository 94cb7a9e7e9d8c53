// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad

import (
	"math/bits"
	"time"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

// TokenDecimals is the mint decimals the program prices against, token
// quantities in accounts and instructions are base units of 1e-9 tokens.
const TokenDecimals = 9

// tokenUnitsPerWhole is 10^TokenDecimals.
const tokenUnitsPerWhole = 1_000_000_000

// TokensForContribution returns the token base units bought by contributing
// the given lamports at the given round price, applying the same integer
// arithmetic as the program: amount * 1e9 / price, truncating.
func TokensForContribution(lamports, pricePerToken uint64) (uint64, error) {
	if pricePerToken == 0 {
		return 0, errors.New("zero price per token")
	}

	hi, lo := bits.Mul64(lamports, tokenUnitsPerWhole)
	if hi != 0 {
		// The program computes in 64 bits, this contribution aborts on-chain.
		return 0, errors.New("contribution overflows token arithmetic",
			z.U64("lamports", lamports), z.U64("price", pricePerToken))
	}

	return lo / pricePerToken, nil
}

// ValidatePurchase applies the program's purchase checks client side, in the
// same order, returning the typed error the transaction would fail with.
// It does not check the round window or active flag, the program does not
// either; use SaleRound.OpenAt for the advisory window check.
func ValidatePurchase(sale TokenSale, round SaleRound, lamports uint64) error {
	if lamports < round.MinContribution {
		return errors.Wrap(ErrContributionTooLow,
			"validate purchase", z.U64("lamports", lamports), z.U64("min", round.MinContribution))
	}

	if lamports > round.MaxContribution {
		return errors.Wrap(ErrContributionExceeded,
			"validate purchase", z.U64("lamports", lamports), z.U64("max", round.MaxContribution))
	}

	raised, carry := bits.Add64(sale.TotalRaised, lamports, 0)
	if carry != 0 || raised > sale.HardCap {
		return errors.Wrap(ErrHardCapReached,
			"validate purchase", z.U64("total_raised", sale.TotalRaised), z.U64("hard_cap", sale.HardCap))
	}

	tokens, err := TokensForContribution(lamports, round.PricePerToken)
	if err != nil {
		return err
	}

	if tokens > round.TokensAvailable {
		return errors.Wrap(ErrInsufficientTokens,
			"validate purchase", z.U64("tokens", tokens), z.U64("available", round.TokensAvailable))
	}

	return nil
}

// OpenAt reports whether the round is marked active and now falls within its
// sale window. The program does not enforce this on purchases, it is an
// advisory signal for clients and the sale tracker.
func (r SaleRound) OpenAt(now time.Time) bool {
	ts := now.Unix()

	return r.IsActive && ts >= r.StartTime && ts <= r.EndTime
}
