// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) solana.PublicKey {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	return key.PublicKey()
}

func assertMeta(t *testing.T, meta *solana.AccountMeta, key solana.PublicKey, writable, signer bool) {
	t.Helper()

	require.Equal(t, key, meta.PublicKey)
	require.Equal(t, writable, meta.IsWritable)
	require.Equal(t, signer, meta.IsSigner)
}

func TestInitializeInstruction(t *testing.T) {
	launchpadKey := testKey(t)
	admin := testKey(t)

	inst, err := NewInitializeInstruction(launchpadKey, admin)
	require.NoError(t, err)
	require.Equal(t, ProgramID(), inst.ProgramID())

	accounts := inst.Accounts()
	require.Len(t, accounts, 3)
	assertMeta(t, accounts[0], launchpadKey, true, true)
	assertMeta(t, accounts[1], admin, true, true)
	assertMeta(t, accounts[2], solana.SystemProgramID, false, false)

	data, err := inst.Data()
	require.NoError(t, err)
	require.Equal(t, initializeDiscriminator[:], data)

	_, err = NewInitializeInstruction(solana.PublicKey{}, admin)
	require.ErrorContains(t, err, "missing account")
}

func TestRegisterTokenInstruction(t *testing.T) {
	launchpadKey := testKey(t)
	tokenSale := testKey(t)
	registrant := testKey(t)
	mint := testKey(t)

	inst, err := NewRegisterTokenInstruction(launchpadKey, tokenSale, registrant, mint, 100, 500)
	require.NoError(t, err)

	accounts := inst.Accounts()
	require.Len(t, accounts, 5)
	assertMeta(t, accounts[0], launchpadKey, true, false)
	assertMeta(t, accounts[1], tokenSale, true, true)
	assertMeta(t, accounts[2], registrant, true, true)
	assertMeta(t, accounts[3], mint, false, false)
	assertMeta(t, accounts[4], solana.SystemProgramID, false, false)

	data, err := inst.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+8+8+32)
	require.Equal(t, registerTokenDiscriminator[:], data[:8])
	require.Equal(t, uint64(100), binary.LittleEndian.Uint64(data[8:16]))
	require.Equal(t, uint64(500), binary.LittleEndian.Uint64(data[16:24]))
	require.Equal(t, mint[:], data[24:56])
}

func TestAddSaleRoundInstruction(t *testing.T) {
	tokenSale := testKey(t)
	saleRound := testKey(t)
	registrant := testKey(t)

	start := time.Unix(1_700_000_000, 0)
	end := start.Add(24 * time.Hour)

	inst, err := NewAddSaleRoundInstruction(tokenSale, saleRound, registrant, RoundParams{
		PricePerToken:   1_000_000_000,
		TokensAvailable: 50_000_000_000,
		MinContribution: 1_000,
		MaxContribution: 2_000_000_000,
		StartTime:       start,
		EndTime:         end,
	})
	require.NoError(t, err)

	accounts := inst.Accounts()
	require.Len(t, accounts, 4)
	assertMeta(t, accounts[0], tokenSale, true, false)
	assertMeta(t, accounts[1], saleRound, true, true)
	assertMeta(t, accounts[2], registrant, true, true)
	assertMeta(t, accounts[3], solana.SystemProgramID, false, false)

	data, err := inst.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+6*8)
	require.Equal(t, addSaleRoundDiscriminator[:], data[:8])
	require.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[8:16]))
	require.Equal(t, uint64(50_000_000_000), binary.LittleEndian.Uint64(data[16:24]))
	require.Equal(t, uint64(1_000), binary.LittleEndian.Uint64(data[24:32]))
	require.Equal(t, uint64(2_000_000_000), binary.LittleEndian.Uint64(data[32:40]))
	require.Equal(t, uint64(1_700_000_000), binary.LittleEndian.Uint64(data[40:48]))
	require.Equal(t, uint64(1_700_086_400), binary.LittleEndian.Uint64(data[48:56]))
}

func TestActivateSaleRoundInstruction(t *testing.T) {
	saleRound := testKey(t)
	registrant := testKey(t)

	inst, err := NewActivateSaleRoundInstruction(saleRound, registrant)
	require.NoError(t, err)

	accounts := inst.Accounts()
	require.Len(t, accounts, 2)
	assertMeta(t, accounts[0], saleRound, true, false)
	assertMeta(t, accounts[1], registrant, true, true)

	data, err := inst.Data()
	require.NoError(t, err)
	require.Equal(t, activateSaleRoundDiscriminator[:], data)
}

func TestPurchaseTokensInstruction(t *testing.T) {
	accs := PurchaseAccounts{
		SaleRound:            testKey(t),
		TokenSale:            testKey(t),
		Investor:             testKey(t),
		Vault:                testKey(t),
		TokenMint:            testKey(t),
		VaultTokenAccount:    testKey(t),
		InvestorTokenAccount: testKey(t),
		Vesting:              testKey(t),
	}

	inst, err := NewPurchaseTokensInstruction(accs, 123_456)
	require.NoError(t, err)

	accounts := inst.Accounts()
	require.Len(t, accounts, 11)
	assertMeta(t, accounts[0], accs.SaleRound, true, false)
	assertMeta(t, accounts[1], accs.TokenSale, true, false)
	assertMeta(t, accounts[2], accs.Investor, true, true)
	assertMeta(t, accounts[3], accs.Vault, true, false)
	assertMeta(t, accounts[4], accs.TokenMint, false, false)
	assertMeta(t, accounts[5], accs.VaultTokenAccount, true, false)
	assertMeta(t, accounts[6], accs.InvestorTokenAccount, true, false)
	assertMeta(t, accounts[7], accs.Vesting, true, true)
	assertMeta(t, accounts[8], solana.TokenProgramID, false, false)
	assertMeta(t, accounts[9], solana.SystemProgramID, false, false)
	assertMeta(t, accounts[10], solana.SPLAssociatedTokenAccountProgramID, false, false)

	data, err := inst.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+8)
	require.Equal(t, purchaseTokensDiscriminator[:], data[:8])
	require.Equal(t, uint64(123_456), binary.LittleEndian.Uint64(data[8:16]))

	accs.Vault = solana.PublicKey{}
	_, err = NewPurchaseTokensInstruction(accs, 123_456)
	require.ErrorContains(t, err, "missing account")
}

func TestClaimTokensInstruction(t *testing.T) {
	accs := ClaimAccounts{
		Vesting:              testKey(t),
		TokenSale:            testKey(t),
		Investor:             testKey(t),
		Vault:                testKey(t),
		TokenMint:            testKey(t),
		VaultTokenAccount:    testKey(t),
		InvestorTokenAccount: testKey(t),
	}

	inst, err := NewClaimTokensInstruction(accs)
	require.NoError(t, err)

	accounts := inst.Accounts()
	require.Len(t, accounts, 8)
	assertMeta(t, accounts[0], accs.Vesting, true, false)
	assertMeta(t, accounts[1], accs.TokenSale, true, false)
	assertMeta(t, accounts[2], accs.Investor, true, true)
	assertMeta(t, accounts[3], accs.Vault, true, false)
	assertMeta(t, accounts[4], accs.TokenMint, false, false)
	assertMeta(t, accounts[5], accs.VaultTokenAccount, true, false)
	assertMeta(t, accounts[6], accs.InvestorTokenAccount, true, false)
	assertMeta(t, accounts[7], solana.TokenProgramID, false, false)

	data, err := inst.Data()
	require.NoError(t, err)
	require.Equal(t, claimTokensDiscriminator[:], data)
}

func TestSetProgramID(t *testing.T) {
	defer SetProgramID(solana.MustPublicKeyFromBase58("AjUxmZYjhXbJq5yDDvxe8Hh2amWnAjLN2Wmf5oET8mZ1"))

	custom := testKey(t)
	SetProgramID(custom)

	inst, err := NewActivateSaleRoundInstruction(testKey(t), testKey(t))
	require.NoError(t, err)
	require.Equal(t, custom, inst.ProgramID())
}
