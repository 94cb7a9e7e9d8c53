// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/provider"
)

// Client invokes launchpad program operations through a provider, generating
// the fresh account keypairs the program initialises and decoding program
// errors into the sentinel errors of this package.
type Client struct {
	prov *provider.Provider
}

// NewClient returns a client invoking the program through the given provider.
func NewClient(prov *provider.Provider) *Client {
	return &Client{prov: prov}
}

// InitializeResult is the outcome of InitializeLaunchpad.
type InitializeResult struct {
	Signature solana.Signature
	Launchpad solana.PublicKey
}

// InitializeLaunchpad creates the root launchpad state account with the
// provider wallet as admin.
func (c *Client) InitializeLaunchpad(ctx context.Context) (InitializeResult, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return InitializeResult{}, errors.Wrap(err, "generate launchpad keypair")
	}

	ix, err := NewInitializeInstruction(key.PublicKey(), c.prov.Address())
	if err != nil {
		return InitializeResult{}, err
	}

	sig, err := c.prov.SendAndConfirm(ctx, []solana.Instruction{ix}, key)
	if err != nil {
		return InitializeResult{}, decodeClientError(err)
	}

	return InitializeResult{
		Signature: sig,
		Launchpad: key.PublicKey(),
	}, nil
}

// RegisterResult is the outcome of RegisterToken.
type RegisterResult struct {
	Signature solana.Signature
	TokenSale solana.PublicKey
}

// RegisterToken registers a token sale for the given mint under the
// launchpad, with the provider wallet as registrant. Caps are lamports.
func (c *Client) RegisterToken(ctx context.Context, launchpadAcc, tokenMint solana.PublicKey, softCap, hardCap uint64) (RegisterResult, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "generate token sale keypair")
	}

	ix, err := NewRegisterTokenInstruction(launchpadAcc, key.PublicKey(), c.prov.Address(), tokenMint, softCap, hardCap)
	if err != nil {
		return RegisterResult{}, err
	}

	sig, err := c.prov.SendAndConfirm(ctx, []solana.Instruction{ix}, key)
	if err != nil {
		return RegisterResult{}, decodeClientError(err)
	}

	return RegisterResult{
		Signature: sig,
		TokenSale: key.PublicKey(),
	}, nil
}

// RoundResult is the outcome of AddSaleRound.
type RoundResult struct {
	Signature solana.Signature
	SaleRound solana.PublicKey
}

// AddSaleRound adds a pricing round to the given token sale. Rounds start
// inactive, activate them with ActivateSaleRound.
func (c *Client) AddSaleRound(ctx context.Context, tokenSale solana.PublicKey, params RoundParams) (RoundResult, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return RoundResult{}, errors.Wrap(err, "generate sale round keypair")
	}

	ix, err := NewAddSaleRoundInstruction(tokenSale, key.PublicKey(), c.prov.Address(), params)
	if err != nil {
		return RoundResult{}, err
	}

	sig, err := c.prov.SendAndConfirm(ctx, []solana.Instruction{ix}, key)
	if err != nil {
		return RoundResult{}, decodeClientError(err)
	}

	return RoundResult{
		Signature: sig,
		SaleRound: key.PublicKey(),
	}, nil
}

// ActivateSaleRound opens the given round for purchases.
func (c *Client) ActivateSaleRound(ctx context.Context, saleRound solana.PublicKey) (solana.Signature, error) {
	ix, err := NewActivateSaleRoundInstruction(saleRound, c.prov.Address())
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.prov.SendAndConfirm(ctx, []solana.Instruction{ix})
	if err != nil {
		return solana.Signature{}, decodeClientError(err)
	}

	return sig, nil
}

// PurchaseResult is the outcome of PurchaseTokens.
type PurchaseResult struct {
	Signature solana.Signature
	// Vesting is the created vesting schedule account holding the purchased
	// allocation.
	Vesting solana.PublicKey
	// Tokens is the purchased allocation in token base units.
	Tokens uint64
}

// PurchaseTokens contributes the given lamports to the sale round, paying
// from the provider wallet into the vault, and creates a vesting schedule
// for the purchased allocation. The purchase is validated against the
// current sale and round state before submission so contributions the
// program would reject fail fast with a typed error.
func (c *Client) PurchaseTokens(ctx context.Context, tokenSale, saleRound, vault solana.PublicKey, lamports uint64) (PurchaseResult, error) {
	sale, err := c.GetTokenSale(ctx, tokenSale)
	if err != nil {
		return PurchaseResult{}, err
	}

	round, err := c.GetSaleRound(ctx, saleRound)
	if err != nil {
		return PurchaseResult{}, err
	}

	err = ValidatePurchase(sale, round, lamports)
	if err != nil {
		return PurchaseResult{}, err
	}

	tokens, err := TokensForContribution(lamports, round.PricePerToken)
	if err != nil {
		return PurchaseResult{}, err
	}

	investor := c.prov.Address()

	vaultTokenAccount, _, err := solana.FindAssociatedTokenAddress(vault, sale.TokenMint)
	if err != nil {
		return PurchaseResult{}, errors.Wrap(err, "derive vault token account")
	}

	investorTokenAccount, _, err := solana.FindAssociatedTokenAddress(investor, sale.TokenMint)
	if err != nil {
		return PurchaseResult{}, errors.Wrap(err, "derive investor token account")
	}

	vestingKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return PurchaseResult{}, errors.Wrap(err, "generate vesting keypair")
	}

	ix, err := NewPurchaseTokensInstruction(PurchaseAccounts{
		SaleRound:            saleRound,
		TokenSale:            tokenSale,
		Investor:             investor,
		Vault:                vault,
		TokenMint:            sale.TokenMint,
		VaultTokenAccount:    vaultTokenAccount,
		InvestorTokenAccount: investorTokenAccount,
		Vesting:              vestingKey.PublicKey(),
	}, lamports)
	if err != nil {
		return PurchaseResult{}, err
	}

	sig, err := c.prov.SendAndConfirm(ctx, []solana.Instruction{ix}, vestingKey)
	if err != nil {
		return PurchaseResult{}, decodeClientError(err)
	}

	return PurchaseResult{
		Signature: sig,
		Vesting:   vestingKey.PublicKey(),
		Tokens:    tokens,
	}, nil
}

// ClaimTokens releases the vested portion of the given vesting schedule to
// the provider wallet. It fails fast with ErrVestingNotStarted or
// ErrNothingToClaim when the schedule has nothing claimable.
func (c *Client) ClaimTokens(ctx context.Context, tokenSale, vesting, vault solana.PublicKey) (solana.Signature, error) {
	sale, err := c.GetTokenSale(ctx, tokenSale)
	if err != nil {
		return solana.Signature{}, err
	}

	schedule, err := c.GetVestingSchedule(ctx, vesting)
	if err != nil {
		return solana.Signature{}, err
	}

	_, err = schedule.ClaimableAmount(time.Now())
	if err != nil {
		return solana.Signature{}, err
	}

	investor := c.prov.Address()

	vaultTokenAccount, _, err := solana.FindAssociatedTokenAddress(vault, sale.TokenMint)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "derive vault token account")
	}

	investorTokenAccount, _, err := solana.FindAssociatedTokenAddress(investor, sale.TokenMint)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "derive investor token account")
	}

	ix, err := NewClaimTokensInstruction(ClaimAccounts{
		Vesting:              vesting,
		TokenSale:            tokenSale,
		Investor:             investor,
		Vault:                vault,
		TokenMint:            sale.TokenMint,
		VaultTokenAccount:    vaultTokenAccount,
		InvestorTokenAccount: investorTokenAccount,
	})
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.prov.SendAndConfirm(ctx, []solana.Instruction{ix})
	if err != nil {
		return solana.Signature{}, decodeClientError(err)
	}

	return sig, nil
}

// GetLaunchpad fetches and decodes the launchpad state account.
func (c *Client) GetLaunchpad(ctx context.Context, addr solana.PublicKey) (Launchpad, error) {
	data, err := c.prov.AccountData(ctx, addr)
	if err != nil {
		return Launchpad{}, err
	}

	return DecodeLaunchpad(data)
}

// GetTokenSale fetches and decodes a token sale account.
func (c *Client) GetTokenSale(ctx context.Context, addr solana.PublicKey) (TokenSale, error) {
	data, err := c.prov.AccountData(ctx, addr)
	if err != nil {
		return TokenSale{}, err
	}

	return DecodeTokenSale(data)
}

// GetSaleRound fetches and decodes a sale round account.
func (c *Client) GetSaleRound(ctx context.Context, addr solana.PublicKey) (SaleRound, error) {
	data, err := c.prov.AccountData(ctx, addr)
	if err != nil {
		return SaleRound{}, err
	}

	return DecodeSaleRound(data)
}

// GetVestingSchedule fetches and decodes a vesting schedule account.
func (c *Client) GetVestingSchedule(ctx context.Context, addr solana.PublicKey) (VestingSchedule, error) {
	data, err := c.prov.AccountData(ctx, addr)
	if err != nil {
		return VestingSchedule{}, err
	}

	return DecodeVestingSchedule(data)
}

// SaleEntry is a token sale account and its address.
type SaleEntry struct {
	Address solana.PublicKey
	Sale    TokenSale
}

// ListTokenSales returns all token sale accounts owned by the program.
func (c *Client) ListTokenSales(ctx context.Context) ([]SaleEntry, error) {
	accounts, err := c.prov.ProgramAccounts(ctx, ProgramID(), tokenSaleDiscriminator[:])
	if err != nil {
		return nil, err
	}

	var sales []SaleEntry

	for _, acc := range accounts {
		sale, err := DecodeTokenSale(acc.Account.Data.GetBinary())
		if err != nil {
			return nil, errors.Wrap(err, "decode token sale", z.Str("address", acc.Pubkey.String()))
		}

		sales = append(sales, SaleEntry{Address: acc.Pubkey, Sale: sale})
	}

	return sales, nil
}

// RoundEntry is a sale round account and its address.
type RoundEntry struct {
	Address solana.PublicKey
	Round   SaleRound
}

// ListSaleRounds returns all sale round accounts owned by the program.
func (c *Client) ListSaleRounds(ctx context.Context) ([]RoundEntry, error) {
	accounts, err := c.prov.ProgramAccounts(ctx, ProgramID(), saleRoundDiscriminator[:])
	if err != nil {
		return nil, err
	}

	var rounds []RoundEntry

	for _, acc := range accounts {
		round, err := DecodeSaleRound(acc.Account.Data.GetBinary())
		if err != nil {
			return nil, errors.Wrap(err, "decode sale round", z.Str("address", acc.Pubkey.String()))
		}

		rounds = append(rounds, RoundEntry{Address: acc.Pubkey, Round: round})
	}

	return rounds, nil
}

// VestingEntry is a vesting schedule account and its address.
type VestingEntry struct {
	Address solana.PublicKey
	Vesting VestingSchedule
}

// ListVestingSchedules returns all vesting schedule accounts of the given
// investor. The investor key directly follows the discriminator in the
// account layout so both filter in a single data prefix.
func (c *Client) ListVestingSchedules(ctx context.Context, investor solana.PublicKey) ([]VestingEntry, error) {
	prefix := append(vestingScheduleDiscriminator[:], investor.Bytes()...)

	accounts, err := c.prov.ProgramAccounts(ctx, ProgramID(), prefix)
	if err != nil {
		return nil, err
	}

	var schedules []VestingEntry

	for _, acc := range accounts {
		schedule, err := DecodeVestingSchedule(acc.Account.Data.GetBinary())
		if err != nil {
			return nil, errors.Wrap(err, "decode vesting schedule", z.Str("address", acc.Pubkey.String()))
		}

		schedules = append(schedules, VestingEntry{Address: acc.Pubkey, Vesting: schedule})
	}

	return schedules, nil
}

// decodeClientError maps provider transaction errors onto the typed program
// errors of this package.
func decodeClientError(err error) error {
	if err == nil {
		return nil
	}

	var txErr *provider.TxError
	if errors.As(err, &txErr) {
		if decoded := DecodeTransactionError(txErr.Reason); decoded != nil {
			return decoded
		}

		return err
	}

	return DecodeSendError(err)
}
