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

// Account discriminators, the sha256("account:<Type>") 8-byte prefixes anchor
// writes at the start of every account it owns.
var (
	launchpadDiscriminator       = [8]byte{247, 20, 16, 242, 203, 38, 169, 160}
	tokenSaleDiscriminator       = [8]byte{124, 108, 99, 6, 247, 132, 120, 233}
	saleRoundDiscriminator       = [8]byte{4, 163, 200, 107, 59, 71, 101, 111}
	vestingScheduleDiscriminator = [8]byte{130, 200, 173, 148, 39, 75, 243, 147}
)

// ErrAccountMismatch is returned when account data does not carry the
// expected discriminator, so the address resolves to a different account type
// or to an account of another program.
var ErrAccountMismatch = errors.NewSentinel("account discriminator mismatch")

// Serialised account sizes in bytes, including the 8 byte discriminator.
const (
	LaunchpadSize       = 8 + 32 + 8
	TokenSaleSize       = 8 + 32 + 32 + 8 + 8 + 8 + 1
	SaleRoundSize       = 8 + 8 + 8 + 8 + 8 + 8 + 8 + 8 + 1
	VestingScheduleSize = 8 + 32 + 8 + 8 + 8 + 8
)

// Launchpad is the root state account, created once per deployment and shared
// by all token sales.
type Launchpad struct {
	Admin         solana.PublicKey
	TotalProjects uint64
}

// TokenSale is the per-project sale account tracking caps and total raised
// lamports for one token mint.
type TokenSale struct {
	Registrant  solana.PublicKey
	TokenMint   solana.PublicKey
	SoftCap     uint64
	HardCap     uint64
	TotalRaised uint64
	IsActive    bool
}

// SaleRound is a pricing window within a token sale. Amounts are lamports,
// token quantities are base units of a 9 decimal mint.
type SaleRound struct {
	PricePerToken   uint64
	TokensAvailable uint64
	TokensSold      uint64
	MinContribution uint64
	MaxContribution uint64
	StartTime       int64
	EndTime         int64
	IsActive        bool
}

// Start returns the round opening time.
func (r SaleRound) Start() time.Time {
	return time.Unix(r.StartTime, 0)
}

// End returns the round closing time.
func (r SaleRound) End() time.Time {
	return time.Unix(r.EndTime, 0)
}

// VestingSchedule is the per-purchase vesting account releasing the bought
// token allocation linearly over the vesting duration.
type VestingSchedule struct {
	Investor        solana.PublicKey
	TotalAllocation uint64
	Released        uint64
	StartTime       int64
	Duration        uint64
}

// Start returns the vesting start time.
func (v VestingSchedule) Start() time.Time {
	return time.Unix(v.StartTime, 0)
}

// End returns the time the full allocation is vested.
func (v VestingSchedule) End() time.Time {
	return time.Unix(v.StartTime+int64(v.Duration), 0)
}

// DecodeLaunchpad parses a Launchpad account from raw account data.
func DecodeLaunchpad(data []byte) (Launchpad, error) {
	var resp Launchpad
	if err := decodeAccount(data, launchpadDiscriminator, &resp); err != nil {
		return Launchpad{}, err
	}

	return resp, nil
}

// DecodeTokenSale parses a TokenSale account from raw account data.
func DecodeTokenSale(data []byte) (TokenSale, error) {
	var resp TokenSale
	if err := decodeAccount(data, tokenSaleDiscriminator, &resp); err != nil {
		return TokenSale{}, err
	}

	return resp, nil
}

// DecodeSaleRound parses a SaleRound account from raw account data.
func DecodeSaleRound(data []byte) (SaleRound, error) {
	var resp SaleRound
	if err := decodeAccount(data, saleRoundDiscriminator, &resp); err != nil {
		return SaleRound{}, err
	}

	return resp, nil
}

// DecodeVestingSchedule parses a VestingSchedule account from raw account data.
func DecodeVestingSchedule(data []byte) (VestingSchedule, error) {
	var resp VestingSchedule
	if err := decodeAccount(data, vestingScheduleDiscriminator, &resp); err != nil {
		return VestingSchedule{}, err
	}

	return resp, nil
}

// EncodeLaunchpad serialises a Launchpad account including its discriminator.
func EncodeLaunchpad(l Launchpad) ([]byte, error) {
	return encodeAccount(launchpadDiscriminator, l)
}

// EncodeTokenSale serialises a TokenSale account including its discriminator.
func EncodeTokenSale(s TokenSale) ([]byte, error) {
	return encodeAccount(tokenSaleDiscriminator, s)
}

// EncodeSaleRound serialises a SaleRound account including its discriminator.
func EncodeSaleRound(r SaleRound) ([]byte, error) {
	return encodeAccount(saleRoundDiscriminator, r)
}

// EncodeVestingSchedule serialises a VestingSchedule account including its discriminator.
func EncodeVestingSchedule(v VestingSchedule) ([]byte, error) {
	return encodeAccount(vestingScheduleDiscriminator, v)
}

func decodeAccount(data []byte, discriminator [8]byte, v any) error {
	if len(data) < 8 {
		return errors.New("account data too short", z.Int("length", len(data)))
	}

	if [8]byte(data[:8]) != discriminator {
		return errors.Wrap(ErrAccountMismatch, "decode account",
			z.Hex("expect", discriminator[:]), z.Hex("actual", data[:8]))
	}

	err := bin.NewBorshDecoder(data[8:]).Decode(v)
	if err != nil {
		return errors.Wrap(err, "unmarshal account data")
	}

	return nil
}

func encodeAccount(discriminator [8]byte, v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(discriminator[:])

	err := bin.NewBorshEncoder(&buf).Encode(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal account data")
	}

	return buf.Bytes(), nil
}
