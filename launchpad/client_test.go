// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad_test

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/launchpad"
	"github.com/padfi/launchpad-go/provider"
	"github.com/padfi/launchpad-go/testutil"
	"github.com/padfi/launchpad-go/testutil/rpcmock"
)

// setupClient returns a client backed by a mock node and the mock itself.
func setupClient(t *testing.T) (*launchpad.Client, *rpcmock.Mock, solana.PrivateKey) {
	t.Helper()

	mock := rpcmock.New(t)
	wallet := testutil.RandomKeypair(t)
	p := provider.NewForT(wallet, mock.Address())
	t.Cleanup(func() {
		_ = p.Close()
	})

	return launchpad.NewClient(p), mock, wallet
}

// setSale sets a canned token sale account and returns its address.
func setSale(t *testing.T, mock *rpcmock.Mock, sale launchpad.TokenSale) solana.PublicKey {
	t.Helper()

	data, err := launchpad.EncodeTokenSale(sale)
	require.NoError(t, err)

	addr := testutil.RandomPubkey(t)
	mock.SetAccount(addr, rpcmock.Account{Owner: launchpad.ProgramID(), Data: data})

	return addr
}

// setRound sets a canned sale round account and returns its address.
func setRound(t *testing.T, mock *rpcmock.Mock, round launchpad.SaleRound) solana.PublicKey {
	t.Helper()

	data, err := launchpad.EncodeSaleRound(round)
	require.NoError(t, err)

	addr := testutil.RandomPubkey(t)
	mock.SetAccount(addr, rpcmock.Account{Owner: launchpad.ProgramID(), Data: data})

	return addr
}

// setVesting sets a canned vesting schedule account and returns its address.
func setVesting(t *testing.T, mock *rpcmock.Mock, v launchpad.VestingSchedule) solana.PublicKey {
	t.Helper()

	data, err := launchpad.EncodeVestingSchedule(v)
	require.NoError(t, err)

	addr := testutil.RandomPubkey(t)
	mock.SetAccount(addr, rpcmock.Account{Owner: launchpad.ProgramID(), Data: data})

	return addr
}

func TestInitializeLaunchpad(t *testing.T) {
	client, mock, wallet := setupClient(t)

	res, err := client.InitializeLaunchpad(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, solana.Signature{}, res.Signature)
	require.NotEqual(t, solana.PublicKey{}, res.Launchpad)

	sent := mock.SentTransactions()
	require.Len(t, sent, 1)

	tx := sent[0]
	require.Len(t, tx.Signatures, 2)
	require.Equal(t, wallet.PublicKey(), tx.Message.AccountKeys[0])

	ix := tx.Message.Instructions[0]
	program, err := tx.Message.Program(ix.ProgramIDIndex)
	require.NoError(t, err)
	require.Equal(t, launchpad.ProgramID(), program)
	require.Len(t, []byte(ix.Data), 8)
}

func TestRegisterToken(t *testing.T) {
	client, mock, _ := setupClient(t)

	res, err := client.RegisterToken(context.Background(),
		testutil.RandomPubkey(t), testutil.RandomPubkey(t), 100, 1000)
	require.NoError(t, err)
	require.NotEqual(t, solana.PublicKey{}, res.TokenSale)
	require.Len(t, mock.SentTransactions(), 1)
}

func TestAddAndActivateRound(t *testing.T) {
	client, mock, _ := setupClient(t)

	now := time.Now()

	res, err := client.AddSaleRound(context.Background(), testutil.RandomPubkey(t), launchpad.RoundParams{
		PricePerToken:   solana.LAMPORTS_PER_SOL,
		TokensAvailable: 1e15,
		MinContribution: 1,
		MaxContribution: 1e12,
		StartTime:       now,
		EndTime:         now.Add(time.Hour),
	})
	require.NoError(t, err)
	require.NotEqual(t, solana.PublicKey{}, res.SaleRound)

	sig, err := client.ActivateSaleRound(context.Background(), res.SaleRound)
	require.NoError(t, err)
	require.NotEqual(t, solana.Signature{}, sig)

	require.Len(t, mock.SentTransactions(), 2)
}

func TestPurchaseTokens(t *testing.T) {
	client, mock, _ := setupClient(t)

	saleAddr := setSale(t, mock, launchpad.TokenSale{
		Registrant: testutil.RandomPubkey(t),
		TokenMint:  testutil.RandomPubkey(t),
		SoftCap:    solana.LAMPORTS_PER_SOL,
		HardCap:    100 * solana.LAMPORTS_PER_SOL,
		IsActive:   true,
	})
	roundAddr := setRound(t, mock, launchpad.SaleRound{
		PricePerToken:   solana.LAMPORTS_PER_SOL,
		TokensAvailable: 1e15,
		MinContribution: 1,
		MaxContribution: 10 * solana.LAMPORTS_PER_SOL,
		StartTime:       time.Now().Add(-time.Hour).Unix(),
		EndTime:         time.Now().Add(time.Hour).Unix(),
		IsActive:        true,
	})

	res, err := client.PurchaseTokens(context.Background(), saleAddr, roundAddr,
		testutil.RandomPubkey(t), solana.LAMPORTS_PER_SOL)
	require.NoError(t, err)
	require.NotEqual(t, solana.PublicKey{}, res.Vesting)

	// 1 SOL at 1 SOL per token buys one whole token.
	require.EqualValues(t, 1_000_000_000, res.Tokens)

	sent := mock.SentTransactions()
	require.Len(t, sent, 1)
	require.Len(t, sent[0].Signatures, 2)
}

func TestPurchasePreflight(t *testing.T) {
	client, mock, _ := setupClient(t)

	saleAddr := setSale(t, mock, launchpad.TokenSale{
		TokenMint: testutil.RandomPubkey(t),
		SoftCap:   solana.LAMPORTS_PER_SOL,
		HardCap:   100 * solana.LAMPORTS_PER_SOL,
		IsActive:  true,
	})
	roundAddr := setRound(t, mock, launchpad.SaleRound{
		PricePerToken:   solana.LAMPORTS_PER_SOL,
		TokensAvailable: 1e15,
		MinContribution: 1000,
		MaxContribution: 10 * solana.LAMPORTS_PER_SOL,
		IsActive:        true,
	})

	_, err := client.PurchaseTokens(context.Background(), saleAddr, roundAddr,
		testutil.RandomPubkey(t), 999)
	require.ErrorIs(t, err, launchpad.ErrContributionTooLow)

	// Nothing was submitted, validation failed client side.
	require.Empty(t, mock.SentTransactions())
}

func TestPurchaseRejectedOnChain(t *testing.T) {
	client, mock, _ := setupClient(t)

	saleAddr := setSale(t, mock, launchpad.TokenSale{
		TokenMint: testutil.RandomPubkey(t),
		SoftCap:   solana.LAMPORTS_PER_SOL,
		HardCap:   100 * solana.LAMPORTS_PER_SOL,
		IsActive:  true,
	})
	roundAddr := setRound(t, mock, launchpad.SaleRound{
		PricePerToken:   solana.LAMPORTS_PER_SOL,
		TokensAvailable: 1e15,
		MinContribution: 1,
		MaxContribution: 10 * solana.LAMPORTS_PER_SOL,
		IsActive:        true,
	})

	mock.SendTransactionFunc = func(*solana.Transaction) (solana.Signature, error) {
		return solana.Signature{}, &jsonrpc.RPCError{
			Code:    -32002,
			Message: "Transaction simulation failed: custom program error: 0x1772",
			Data:    map[string]any{"err": map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 6002}}}},
		}
	}

	_, err := client.PurchaseTokens(context.Background(), saleAddr, roundAddr,
		testutil.RandomPubkey(t), solana.LAMPORTS_PER_SOL)
	require.ErrorIs(t, err, launchpad.ErrHardCapReached)
}

func TestClaimTokens(t *testing.T) {
	client, mock, wallet := setupClient(t)

	saleAddr := setSale(t, mock, launchpad.TokenSale{
		TokenMint: testutil.RandomPubkey(t),
		IsActive:  true,
	})
	vestingAddr := setVesting(t, mock, launchpad.VestingSchedule{
		Investor:        wallet.PublicKey(),
		TotalAllocation: 1e9,
		StartTime:       time.Now().Add(-10 * 24 * time.Hour).Unix(),
		Duration:        uint64(launchpad.VestingDuration / time.Second),
	})

	sig, err := client.ClaimTokens(context.Background(), saleAddr, vestingAddr, testutil.RandomPubkey(t))
	require.NoError(t, err)
	require.NotEqual(t, solana.Signature{}, sig)
	require.Len(t, mock.SentTransactions(), 1)
}

func TestClaimPreflight(t *testing.T) {
	client, mock, wallet := setupClient(t)

	saleAddr := setSale(t, mock, launchpad.TokenSale{
		TokenMint: testutil.RandomPubkey(t),
		IsActive:  true,
	})
	vestingAddr := setVesting(t, mock, launchpad.VestingSchedule{
		Investor:        wallet.PublicKey(),
		TotalAllocation: 1e9,
		StartTime:       time.Now().Add(time.Hour).Unix(),
		Duration:        uint64(launchpad.VestingDuration / time.Second),
	})

	_, err := client.ClaimTokens(context.Background(), saleAddr, vestingAddr, testutil.RandomPubkey(t))
	require.ErrorIs(t, err, launchpad.ErrVestingNotStarted)
	require.Empty(t, mock.SentTransactions())
}

func TestClaimFailedOnChain(t *testing.T) {
	client, mock, wallet := setupClient(t)

	saleAddr := setSale(t, mock, launchpad.TokenSale{
		TokenMint: testutil.RandomPubkey(t),
		IsActive:  true,
	})
	vestingAddr := setVesting(t, mock, launchpad.VestingSchedule{
		Investor:        wallet.PublicKey(),
		TotalAllocation: 1e9,
		StartTime:       time.Now().Add(-10 * 24 * time.Hour).Unix(),
		Duration:        uint64(launchpad.VestingDuration / time.Second),
	})

	mock.GetSignatureStatusesFunc = func(sigs []solana.Signature) ([]*rpc.SignatureStatusesResult, error) {
		return []*rpc.SignatureStatusesResult{{
			Err:                map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 6005}}},
			ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
		}}, nil
	}

	_, err := client.ClaimTokens(context.Background(), saleAddr, vestingAddr, testutil.RandomPubkey(t))
	require.ErrorIs(t, err, launchpad.ErrNothingToClaim)
}

func TestTypedGetters(t *testing.T) {
	client, mock, wallet := setupClient(t)

	ctx := context.Background()

	sale := launchpad.TokenSale{
		Registrant:  testutil.RandomPubkey(t),
		TokenMint:   testutil.RandomPubkey(t),
		SoftCap:     100,
		HardCap:     1000,
		TotalRaised: 5,
		IsActive:    true,
	}
	saleAddr := setSale(t, mock, sale)

	got, err := client.GetTokenSale(ctx, saleAddr)
	require.NoError(t, err)
	require.Equal(t, sale, got)

	// A sale round address holding token sale data is a type mismatch.
	_, err = client.GetSaleRound(ctx, saleAddr)
	require.ErrorIs(t, err, launchpad.ErrAccountMismatch)

	// Missing accounts surface the provider sentinel.
	_, err = client.GetVestingSchedule(ctx, testutil.RandomPubkey(t))
	require.ErrorIs(t, err, provider.ErrAccountNotFound)

	vesting := launchpad.VestingSchedule{
		Investor:        wallet.PublicKey(),
		TotalAllocation: 77,
		StartTime:       time.Now().Unix(),
		Duration:        60,
	}
	vestingAddr := setVesting(t, mock, vesting)

	gotVesting, err := client.GetVestingSchedule(ctx, vestingAddr)
	require.NoError(t, err)
	require.Equal(t, vesting, gotVesting)
}

func TestListTokenSales(t *testing.T) {
	client, mock, _ := setupClient(t)

	addr1 := setSale(t, mock, launchpad.TokenSale{TokenMint: testutil.RandomPubkey(t), HardCap: 1})
	addr2 := setSale(t, mock, launchpad.TokenSale{TokenMint: testutil.RandomPubkey(t), HardCap: 2})

	// Rounds must not show up in the sale listing.
	setRound(t, mock, launchpad.SaleRound{PricePerToken: 1})

	sales, err := client.ListTokenSales(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 2)

	addrs := []solana.PublicKey{sales[0].Address, sales[1].Address}
	require.Contains(t, addrs, addr1)
	require.Contains(t, addrs, addr2)
}

func TestListVestingSchedules(t *testing.T) {
	client, mock, wallet := setupClient(t)

	mine := setVesting(t, mock, launchpad.VestingSchedule{
		Investor:        wallet.PublicKey(),
		TotalAllocation: 10,
		Duration:        60,
	})
	setVesting(t, mock, launchpad.VestingSchedule{
		Investor:        testutil.RandomPubkey(t),
		TotalAllocation: 20,
		Duration:        60,
	})

	schedules, err := client.ListVestingSchedules(context.Background(), wallet.PublicKey())
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	require.Equal(t, mine, schedules[0].Address)
	require.EqualValues(t, 10, schedules[0].Vesting.TotalAllocation)
}
