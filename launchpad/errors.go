// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package launchpad

import (
	"encoding/json"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

// Typed on-chain program errors. Anchor assigns custom error codes to the
// program's error enum starting at 6000, in declaration order.
var (
	ErrContributionTooLow   = errors.NewSentinel("contribution too low")
	ErrContributionExceeded = errors.NewSentinel("contribution exceeded")
	ErrHardCapReached       = errors.NewSentinel("hard cap reached")
	ErrInsufficientTokens   = errors.NewSentinel("insufficient tokens")
	ErrVestingNotStarted    = errors.NewSentinel("vesting not started")
	ErrNothingToClaim       = errors.NewSentinel("nothing to claim")
)

// customErrOffset is the code anchor assigns to the first custom program error.
const customErrOffset = 6000

var customErrors = map[uint32]error{
	customErrOffset + 0: ErrContributionTooLow,
	customErrOffset + 1: ErrContributionExceeded,
	customErrOffset + 2: ErrHardCapReached,
	customErrOffset + 3: ErrInsufficientTokens,
	customErrOffset + 4: ErrVestingNotStarted,
	customErrOffset + 5: ErrNothingToClaim,
}

// ErrorFromCode returns the typed error for an on-chain custom error code,
// or nil if the code is not a launchpad error.
func ErrorFromCode(code uint32) error {
	return customErrors[code]
}

// DecodeSendError inspects a sendTransaction or simulateTransaction RPC
// error and returns the typed launchpad error when the transaction failed
// with a custom program code. Other errors are returned unchanged.
func DecodeSendError(err error) error {
	if err == nil {
		return nil
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}

	code, ok := findCustomCode(rpcErr.Data)
	if !ok {
		return err
	}

	if typed := ErrorFromCode(code); typed != nil {
		return errors.Wrap(typed, "transaction rejected")
	}

	return errors.New("program failed with unknown custom error", z.U64("code", uint64(code)))
}

// DecodeTransactionError converts the generic error value reported in a
// transaction status to a typed launchpad error where possible. It returns
// nil if the value is nil, so callers can pass status errors through directly.
func DecodeTransactionError(v any) error {
	if v == nil {
		return nil
	}

	code, ok := findCustomCode(v)
	if !ok {
		return errors.New("transaction failed", z.Any("reason", v))
	}

	if typed := ErrorFromCode(code); typed != nil {
		return errors.Wrap(typed, "transaction failed")
	}

	return errors.New("program failed with unknown custom error", z.U64("code", uint64(code)))
}

// findCustomCode recursively searches a decoded JSON transaction error value
// for the {"Custom": <code>} leaf, like {"InstructionError": [0, {"Custom": 6002}]}.
func findCustomCode(v any) (uint32, bool) {
	switch t := v.(type) {
	case map[string]any:
		if c, ok := t["Custom"]; ok {
			if code, ok := asUint32(c); ok {
				return code, true
			}
		}

		for _, val := range t {
			if code, ok := findCustomCode(val); ok {
				return code, true
			}
		}
	case []any:
		for _, val := range t {
			if code, ok := findCustomCode(val); ok {
				return code, true
			}
		}
	}

	return 0, false
}

func asUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case float64:
		return uint32(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}

		return uint32(i), true
	case int:
		return uint32(n), true
	case int64:
		return uint32(n), true
	case uint32:
		return n, true
	case uint64:
		return uint32(n), true
	default:
		return 0, false
	}
}
