// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package rpcmock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/testutil/rpcmock"
)

func TestDefaults(t *testing.T) {
	mock := rpcmock.New(t)
	cl := rpc.New(mock.Address())

	ctx := context.Background()

	version, err := cl.GetVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.18.26", version.SolanaCore)

	genesis, err := cl.GetGenesisHash(ctx)
	require.NoError(t, err)
	require.Equal(t, rpcmock.GenesisHash, genesis)

	blockhash, err := cl.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	require.NoError(t, err)
	require.NotEqual(t, solana.Hash{}, blockhash.Value.Blockhash)

	balance, err := cl.GetBalance(ctx, solana.SystemProgramID, rpc.CommitmentConfirmed)
	require.NoError(t, err)
	require.EqualValues(t, solana.LAMPORTS_PER_SOL, balance.Value)
}

func TestAccountNotFound(t *testing.T) {
	mock := rpcmock.New(t)
	cl := rpc.New(mock.Address())

	wallet := solana.NewWallet()

	_, err := cl.GetAccountInfoWithOpts(context.Background(), wallet.PublicKey(), &rpc.GetAccountInfoOpts{
		Encoding: solana.EncodingBase64,
	})
	require.ErrorIs(t, err, rpc.ErrNotFound)
}

func TestErrorPassthrough(t *testing.T) {
	mock := rpcmock.New(t)
	mock.GetBalanceFunc = func(solana.PublicKey) (uint64, error) {
		return 0, &jsonrpc.RPCError{Code: 42, Message: "boom"}
	}

	cl := rpc.New(mock.Address())

	_, err := cl.GetBalance(context.Background(), solana.SystemProgramID, rpc.CommitmentConfirmed)
	require.Error(t, err)

	rpcErr := new(jsonrpc.RPCError)
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, 42, rpcErr.Code)
	require.Equal(t, "boom", rpcErr.Message)
}
