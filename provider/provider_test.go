// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/provider"
	"github.com/padfi/launchpad-go/solutil"
	"github.com/padfi/launchpad-go/testutil"
	"github.com/padfi/launchpad-go/testutil/rpcmock"
)

func transferIx(t *testing.T, from, to solana.PublicKey) solana.Instruction {
	t.Helper()

	return system.NewTransferInstruction(1000, from, to).Build()
}

func TestSendAndConfirm(t *testing.T) {
	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	ix := transferIx(t, wallet.PublicKey(), testutil.RandomPubkey(t))

	sig, err := p.SendAndConfirm(context.Background(), []solana.Instruction{ix})
	require.NoError(t, err)
	require.NotEqual(t, solana.Signature{}, sig)

	sent := mock.SentTransactions()
	require.Len(t, sent, 1)
	require.Equal(t, sig, sent[0].Signatures[0])
	require.Equal(t, wallet.PublicKey(), sent[0].Message.AccountKeys[0])
}

func TestSendAndConfirmDelayed(t *testing.T) {
	mock := rpcmock.New(t)

	var calls int
	mock.GetSignatureStatusesFunc = func(sigs []solana.Signature) ([]*rpc.SignatureStatusesResult, error) {
		calls++
		status := rpc.ConfirmationStatusProcessed
		if calls > 1 {
			status = rpc.ConfirmationStatusConfirmed
		}

		return []*rpc.SignatureStatusesResult{{ConfirmationStatus: status}}, nil
	}

	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	ix := transferIx(t, wallet.PublicKey(), testutil.RandomPubkey(t))

	_, err := p.SendAndConfirm(context.Background(), []solana.Instruction{ix})
	require.NoError(t, err)
	require.GreaterOrEqual(t, calls, 2)
}

func TestSendAndConfirmFailedTx(t *testing.T) {
	mock := rpcmock.New(t)
	mock.GetSignatureStatusesFunc = func(sigs []solana.Signature) ([]*rpc.SignatureStatusesResult, error) {
		return []*rpc.SignatureStatusesResult{{
			Err:                map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 6000}}},
			ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
		}}, nil
	}

	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	ix := transferIx(t, wallet.PublicKey(), testutil.RandomPubkey(t))

	sig, err := p.SendAndConfirm(context.Background(), []solana.Instruction{ix})
	require.Error(t, err)
	require.NotEqual(t, solana.Signature{}, sig)

	txErr := new(provider.TxError)
	require.ErrorAs(t, err, &txErr)
	require.Equal(t, sig, txErr.Signature)
	require.NotNil(t, txErr.Reason)
}

func TestSendRejected(t *testing.T) {
	mock := rpcmock.New(t)
	mock.SendTransactionFunc = func(*solana.Transaction) (solana.Signature, error) {
		return solana.Signature{}, &jsonrpc.RPCError{
			Code:    -32002,
			Message: "Transaction simulation failed",
			Data:    map[string]any{"err": map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 6002}}}},
		}
	}

	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	ix := transferIx(t, wallet.PublicKey(), testutil.RandomPubkey(t))

	_, err := p.SendAndConfirm(context.Background(), []solana.Instruction{ix})
	require.Error(t, err)

	rpcErr := new(jsonrpc.RPCError)
	require.ErrorAs(t, err, &rpcErr)
	require.EqualValues(t, -32002, rpcErr.Code)
}

func TestConfirmTimeout(t *testing.T) {
	mock := rpcmock.New(t)
	mock.GetSignatureStatusesFunc = func(sigs []solana.Signature) ([]*rpc.SignatureStatusesResult, error) {
		return []*rpc.SignatureStatusesResult{nil}, nil
	}

	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*300)
	defer cancel()

	ix := transferIx(t, wallet.PublicKey(), testutil.RandomPubkey(t))

	_, err := p.SendAndConfirm(ctx, []solana.Instruction{ix})
	require.ErrorContains(t, err, "timeout awaiting confirmation")
}

func TestAccountInfo(t *testing.T) {
	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	ctx := context.Background()

	addr := testutil.RandomPubkey(t)
	_, err := p.AccountInfo(ctx, addr)
	require.ErrorIs(t, err, provider.ErrAccountNotFound)

	owner := testutil.RandomPubkey(t)
	mock.SetAccount(addr, rpcmock.Account{
		Owner:    owner,
		Lamports: 123,
		Data:     []byte("hello launchpad"),
	})

	acc, err := p.AccountInfo(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, owner, acc.Owner)
	require.EqualValues(t, 123, acc.Lamports)
	require.False(t, acc.Executable)

	data, err := p.AccountData(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, []byte("hello launchpad"), data)
}

func TestResolveProgram(t *testing.T) {
	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	ctx := context.Background()

	_, err := p.ResolveProgram(ctx, "bogus")
	require.ErrorContains(t, err, "unknown program name")

	id := testutil.RandomPubkey(t)
	provider.RegisterProgram("resolve-test", id)

	_, err = p.ResolveProgram(ctx, "resolve-test")
	require.ErrorIs(t, err, provider.ErrProgramNotDeployed)

	mock.SetAccount(id, rpcmock.Account{Owner: testutil.RandomPubkey(t), Lamports: 1})
	_, err = p.ResolveProgram(ctx, "resolve-test")
	require.ErrorIs(t, err, provider.ErrProgramNotDeployed)

	mock.SetProgram(id)
	got, err := p.ResolveProgram(ctx, "resolve-test")
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestConnect(t *testing.T) {
	solutil.SetCustomClusterForTest(nil)
	solutil.AddTestCluster(solutil.Cluster{
		Name:        "rpcmock",
		GenesisHash: rpcmock.GenesisHash.String(),
	})

	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	cluster, err := p.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, "rpcmock", cluster.Name)
	require.Equal(t, cluster, solutil.CurrentCluster())
}

func TestEndpointFallback(t *testing.T) {
	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)

	// Port 1 is never listening, so the primary always fails transport.
	p := provider.NewForT(wallet, "http://127.0.0.1:1", mock.Address())

	balance, err := p.Balance(context.Background(), wallet.PublicKey())
	require.NoError(t, err)
	require.EqualValues(t, solana.LAMPORTS_PER_SOL, balance)
}

func TestProgramAccounts(t *testing.T) {
	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	program := testutil.RandomPubkey(t)
	match := testutil.RandomPubkey(t)
	mock.SetAccount(match, rpcmock.Account{Owner: program, Data: []byte{1, 2, 3, 4}})
	mock.SetAccount(testutil.RandomPubkey(t), rpcmock.Account{Owner: program, Data: []byte{9, 9}})
	mock.SetAccount(testutil.RandomPubkey(t), rpcmock.Account{Owner: testutil.RandomPubkey(t), Data: []byte{1, 2, 3, 4}})

	accounts, err := p.ProgramAccounts(context.Background(), program, []byte{1, 2})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, match, accounts[0].Pubkey)
	require.Equal(t, []byte{1, 2, 3, 4}, accounts[0].Account.Data.GetBinary())
}

func TestAirdrop(t *testing.T) {
	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	sig, err := p.Airdrop(context.Background(), wallet.PublicKey(), solana.LAMPORTS_PER_SOL)
	require.NoError(t, err)
	require.NotEqual(t, solana.Signature{}, sig)
}

func TestSimulate(t *testing.T) {
	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())

	ix := transferIx(t, wallet.PublicKey(), testutil.RandomPubkey(t))

	value, err := p.Simulate(context.Background(), []solana.Instruction{ix})
	require.NoError(t, err)
	require.NotNil(t, value)

	mock.SimulateTransactionFunc = func(*solana.Transaction) (*rpc.SimulateTransactionResult, error) {
		return &rpc.SimulateTransactionResult{
			Err:  map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 6003}}},
			Logs: []string{"Program log: boom"},
		}, nil
	}

	value, err = p.Simulate(context.Background(), []solana.Instruction{ix})
	require.Error(t, err)
	require.NotNil(t, value)

	txErr := new(provider.TxError)
	require.ErrorAs(t, err, &txErr)
}
