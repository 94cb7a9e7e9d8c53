// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad

import (
	"bytes"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

// RoundParams are the parameters of a new sale round. Prices and
// contributions are lamports, token quantities are base units of a 9 decimal
// mint. Times are truncated to unix seconds on the wire.
type RoundParams struct {
	PricePerToken   uint64
	TokensAvailable uint64
	MinContribution uint64
	MaxContribution uint64
	StartTime       time.Time
	EndTime         time.Time
}

// PurchaseAccounts are the accounts of a purchase_tokens invocation.
// Vesting must be a fresh keypair signing the transaction, the program
// creates the vesting schedule account at that address.
type PurchaseAccounts struct {
	SaleRound            solana.PublicKey
	TokenSale            solana.PublicKey
	Investor             solana.PublicKey
	Vault                solana.PublicKey
	TokenMint            solana.PublicKey
	VaultTokenAccount    solana.PublicKey
	InvestorTokenAccount solana.PublicKey
	Vesting              solana.PublicKey
}

// ClaimAccounts are the accounts of a claim_tokens invocation.
type ClaimAccounts struct {
	Vesting              solana.PublicKey
	TokenSale            solana.PublicKey
	Investor             solana.PublicKey
	Vault                solana.PublicKey
	TokenMint            solana.PublicKey
	VaultTokenAccount    solana.PublicKey
	InvestorTokenAccount solana.PublicKey
}

type registerTokenArgs struct {
	SoftCap   uint64
	HardCap   uint64
	TokenMint solana.PublicKey
}

type addSaleRoundArgs struct {
	PricePerToken   uint64
	TokensAvailable uint64
	MinContribution uint64
	MaxContribution uint64
	StartTime       int64
	EndTime         int64
}

type purchaseTokensArgs struct {
	Amount uint64
}

// NewInitializeInstruction returns an instruction invoking the initialize
// method, creating the root launchpad state account. The launchpad account is
// a fresh keypair that must sign the transaction, admin pays for it.
func NewInitializeInstruction(launchpad, admin solana.PublicKey) (solana.Instruction, error) {
	err := validateKeys(
		namedKey{"launchpad", launchpad},
		namedKey{"admin", admin},
	)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction(initializeDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(ProgramID(), solana.AccountMetaSlice{
		solana.Meta(launchpad).WRITE().SIGNER(),
		solana.Meta(admin).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, data), nil
}

// NewRegisterTokenInstruction returns an instruction invoking the
// register_token method, creating a token sale account for the given mint.
// The tokenSale account is a fresh keypair that must sign the transaction.
func NewRegisterTokenInstruction(launchpad, tokenSale, registrant, tokenMint solana.PublicKey, softCap, hardCap uint64) (solana.Instruction, error) {
	err := validateKeys(
		namedKey{"launchpad", launchpad},
		namedKey{"token_sale", tokenSale},
		namedKey{"registrant", registrant},
		namedKey{"token_mint", tokenMint},
	)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction(registerTokenDiscriminator, registerTokenArgs{
		SoftCap:   softCap,
		HardCap:   hardCap,
		TokenMint: tokenMint,
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(ProgramID(), solana.AccountMetaSlice{
		solana.Meta(launchpad).WRITE(),
		solana.Meta(tokenSale).WRITE().SIGNER(),
		solana.Meta(registrant).WRITE().SIGNER(),
		solana.Meta(tokenMint),
		solana.Meta(solana.SystemProgramID),
	}, data), nil
}

// NewAddSaleRoundInstruction returns an instruction invoking the
// add_sale_round method, creating a sale round account under the token sale.
// The saleRound account is a fresh keypair that must sign the transaction.
func NewAddSaleRoundInstruction(tokenSale, saleRound, registrant solana.PublicKey, params RoundParams) (solana.Instruction, error) {
	err := validateKeys(
		namedKey{"token_sale", tokenSale},
		namedKey{"sale_round", saleRound},
		namedKey{"registrant", registrant},
	)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction(addSaleRoundDiscriminator, addSaleRoundArgs{
		PricePerToken:   params.PricePerToken,
		TokensAvailable: params.TokensAvailable,
		MinContribution: params.MinContribution,
		MaxContribution: params.MaxContribution,
		StartTime:       params.StartTime.Unix(),
		EndTime:         params.EndTime.Unix(),
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(ProgramID(), solana.AccountMetaSlice{
		solana.Meta(tokenSale).WRITE(),
		solana.Meta(saleRound).WRITE().SIGNER(),
		solana.Meta(registrant).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, data), nil
}

// NewActivateSaleRoundInstruction returns an instruction invoking the
// activate_sale_round method, flagging the round as active.
func NewActivateSaleRoundInstruction(saleRound, registrant solana.PublicKey) (solana.Instruction, error) {
	err := validateKeys(
		namedKey{"sale_round", saleRound},
		namedKey{"registrant", registrant},
	)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction(activateSaleRoundDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(ProgramID(), solana.AccountMetaSlice{
		solana.Meta(saleRound).WRITE(),
		solana.Meta(registrant).WRITE().SIGNER(),
	}, data), nil
}

// NewPurchaseTokensInstruction returns an instruction invoking the
// purchase_tokens method, contributing amount lamports to the round and
// creating a vesting schedule for the bought allocation.
func NewPurchaseTokensInstruction(accs PurchaseAccounts, amount uint64) (solana.Instruction, error) {
	err := validateKeys(
		namedKey{"sale_round", accs.SaleRound},
		namedKey{"token_sale", accs.TokenSale},
		namedKey{"investor", accs.Investor},
		namedKey{"vault", accs.Vault},
		namedKey{"token_mint", accs.TokenMint},
		namedKey{"vault_token_account", accs.VaultTokenAccount},
		namedKey{"investor_token_account", accs.InvestorTokenAccount},
		namedKey{"vesting", accs.Vesting},
	)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction(purchaseTokensDiscriminator, purchaseTokensArgs{Amount: amount})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(ProgramID(), solana.AccountMetaSlice{
		solana.Meta(accs.SaleRound).WRITE(),
		solana.Meta(accs.TokenSale).WRITE(),
		solana.Meta(accs.Investor).WRITE().SIGNER(),
		solana.Meta(accs.Vault).WRITE(),
		solana.Meta(accs.TokenMint),
		solana.Meta(accs.VaultTokenAccount).WRITE(),
		solana.Meta(accs.InvestorTokenAccount).WRITE(),
		solana.Meta(accs.Vesting).WRITE().SIGNER(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
	}, data), nil
}

// NewClaimTokensInstruction returns an instruction invoking the claim_tokens
// method, transferring the currently vested amount from the vault token
// account to the investor token account.
func NewClaimTokensInstruction(accs ClaimAccounts) (solana.Instruction, error) {
	err := validateKeys(
		namedKey{"vesting", accs.Vesting},
		namedKey{"token_sale", accs.TokenSale},
		namedKey{"investor", accs.Investor},
		namedKey{"vault", accs.Vault},
		namedKey{"token_mint", accs.TokenMint},
		namedKey{"vault_token_account", accs.VaultTokenAccount},
		namedKey{"investor_token_account", accs.InvestorTokenAccount},
	)
	if err != nil {
		return nil, err
	}

	data, err := encodeInstruction(claimTokensDiscriminator, nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(ProgramID(), solana.AccountMetaSlice{
		solana.Meta(accs.Vesting).WRITE(),
		solana.Meta(accs.TokenSale).WRITE(),
		solana.Meta(accs.Investor).WRITE().SIGNER(),
		solana.Meta(accs.Vault).WRITE(),
		solana.Meta(accs.TokenMint),
		solana.Meta(accs.VaultTokenAccount).WRITE(),
		solana.Meta(accs.InvestorTokenAccount).WRITE(),
		solana.Meta(solana.TokenProgramID),
	}, data), nil
}

type namedKey struct {
	name string
	key  solana.PublicKey
}

func validateKeys(keys ...namedKey) error {
	for _, k := range keys {
		if k.key.IsZero() {
			return errors.New("missing account", z.Str("account", k.name))
		}
	}

	return nil
}

// encodeInstruction serialises the discriminator followed by the borsh
// encoded args, or only the discriminator if args is nil.
func encodeInstruction(discriminator [8]byte, args any) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(discriminator[:])

	if args != nil {
		err := bin.NewBorshEncoder(&buf).Encode(args)
		if err != nil {
			return nil, errors.Wrap(err, "marshal instruction args")
		}
	}

	return buf.Bytes(), nil
}
