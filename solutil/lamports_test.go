// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package solutil_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/solutil"
)

func TestLamportsToSol(t *testing.T) {
	require.Equal(t, "1", solutil.LamportsToSol(1_000_000_000).String())
	require.Equal(t, "0.5", solutil.LamportsToSol(500_000_000).String())
	require.Equal(t, "0.000000001", solutil.LamportsToSol(1).String())
	require.Equal(t, "18446744073.709551615", solutil.LamportsToSol(^uint64(0)).String())
}

func TestSolToLamports(t *testing.T) {
	lamports, err := solutil.SolToLamports(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	require.Equal(t, uint64(1_500_000_000), lamports)

	lamports, err = solutil.SolToLamports(decimal.RequireFromString("0.000000001"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), lamports)

	_, err = solutil.SolToLamports(decimal.RequireFromString("0.0000000001"))
	require.ErrorContains(t, err, "sub-unit precision")

	_, err = solutil.SolToLamports(decimal.RequireFromString("-1"))
	require.ErrorContains(t, err, "out of uint64 range")

	_, err = solutil.SolToLamports(decimal.RequireFromString("20000000000"))
	require.ErrorContains(t, err, "out of uint64 range")
}

func TestAmountRoundTrip(t *testing.T) {
	for _, raw := range []uint64{0, 1, 999, 1_000_000_000, 123_456_789_012} {
		d := solutil.AmountToDecimal(raw, 9)
		got, err := solutil.DecimalToAmount(d, 9)
		require.NoError(t, err)
		require.Equal(t, raw, got)
	}
}
