// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package solutil

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

// SolDecimals is the number of decimals of the native token, one SOL is 1e9 lamports.
const SolDecimals = 9

// LamportsToSol converts a raw lamport amount to a SOL decimal.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return AmountToDecimal(lamports, SolDecimals)
}

// SolToLamports converts a SOL decimal to a raw lamport amount.
// It returns an error if the amount carries sub-lamport precision,
// is negative, or overflows uint64.
func SolToLamports(sol decimal.Decimal) (uint64, error) {
	return DecimalToAmount(sol, SolDecimals)
}

// AmountToDecimal converts a raw token amount to its display decimal
// given the mint decimals.
func AmountToDecimal(raw uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -decimals)
}

// DecimalToAmount converts a display decimal to its raw token amount
// given the mint decimals.
func DecimalToAmount(d decimal.Decimal, decimals int32) (uint64, error) {
	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return 0, errors.New("amount has sub-unit precision",
			z.Str("amount", d.String()), z.Int("decimals", int(decimals)))
	}

	bi := shifted.BigInt()
	if bi.Sign() < 0 || !bi.IsUint64() {
		return 0, errors.New("amount out of uint64 range", z.Str("amount", d.String()))
	}

	return bi.Uint64(), nil
}
