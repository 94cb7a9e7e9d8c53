// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package rpcmock

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/mr-tron/base58"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

type request struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// ServeHTTP dispatches a JSON-RPC request onto the mock method functions.
func (m *Mock) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		writeResponse(w, req.ID, nil, &jsonrpc.RPCError{Code: -32700, Message: "parse error"})
		return
	}

	result, err := m.serve(req.Method, req.Params)
	if err != nil {
		rpcErr := &jsonrpc.RPCError{Code: -32603, Message: err.Error()}

		var typed *jsonrpc.RPCError
		if errors.As(err, &typed) {
			rpcErr = typed
		}

		writeResponse(w, req.ID, nil, rpcErr)

		return
	}

	writeResponse(w, req.ID, result, nil)
}

func (m *Mock) serve(method string, params []json.RawMessage) (any, error) {
	switch method {
	case "getVersion":
		version, err := m.GetVersionFunc()
		if err != nil {
			return nil, err
		}

		return map[string]any{"solana-core": version, "feature-set": 0}, nil
	case "getGenesisHash":
		hash, err := m.GetGenesisHashFunc()
		if err != nil {
			return nil, err
		}

		return hash.String(), nil
	case "getLatestBlockhash":
		hash, err := m.GetLatestBlockhashFunc()
		if err != nil {
			return nil, err
		}

		slot := m.nextSlot()

		return withContext(slot, map[string]any{
			"blockhash":            hash.String(),
			"lastValidBlockHeight": slot + 150,
		}), nil
	case "getBalance":
		addr, err := pubkeyParam(params, 0)
		if err != nil {
			return nil, err
		}

		balance, err := m.GetBalanceFunc(addr)
		if err != nil {
			return nil, err
		}

		return withContext(m.nextSlot(), balance), nil
	case "getAccountInfo":
		addr, err := pubkeyParam(params, 0)
		if err != nil {
			return nil, err
		}

		acc, ok, err := m.GetAccountInfoFunc(addr)
		if err != nil {
			return nil, err
		}

		if !ok {
			return withContext(m.nextSlot(), nil), nil
		}

		return withContext(m.nextSlot(), accountJSON(acc)), nil
	case "sendTransaction":
		tx, err := txParam(params)
		if err != nil {
			return nil, err
		}

		sig, err := m.SendTransactionFunc(tx)
		if err != nil {
			return nil, err
		}

		return sig.String(), nil
	case "getSignatureStatuses":
		var sigStrs []string
		if err := unmarshalParam(params, 0, &sigStrs); err != nil {
			return nil, err
		}

		var sigs []solana.Signature

		for _, s := range sigStrs {
			sig, err := solana.SignatureFromBase58(s)
			if err != nil {
				return nil, errors.Wrap(err, "parse signature")
			}

			sigs = append(sigs, sig)
		}

		statuses, err := m.GetSignatureStatusesFunc(sigs)
		if err != nil {
			return nil, err
		}

		return withContext(m.nextSlot(), statuses), nil
	case "simulateTransaction":
		tx, err := txParam(params)
		if err != nil {
			return nil, err
		}

		result, err := m.SimulateTransactionFunc(tx)
		if err != nil {
			return nil, err
		}

		return withContext(m.nextSlot(), result), nil
	case "requestAirdrop":
		addr, err := pubkeyParam(params, 0)
		if err != nil {
			return nil, err
		}

		var lamports uint64
		if err := unmarshalParam(params, 1, &lamports); err != nil {
			return nil, err
		}

		sig, err := m.RequestAirdropFunc(addr, lamports)
		if err != nil {
			return nil, err
		}

		return sig.String(), nil
	case "getProgramAccounts":
		program, err := pubkeyParam(params, 0)
		if err != nil {
			return nil, err
		}

		prefix, err := memcmpPrefix(params)
		if err != nil {
			return nil, err
		}

		accounts, err := m.GetProgramAccountsFunc(program, prefix)
		if err != nil {
			return nil, err
		}

		resp := []any{}
		for _, acc := range accounts {
			resp = append(resp, map[string]any{
				"pubkey":  acc.Pubkey.String(),
				"account": accountJSON(acc.Account),
			})
		}

		return resp, nil
	default:
		return nil, &jsonrpc.RPCError{Code: -32601, Message: "method not found: " + method}
	}
}

func (m *Mock) nextSlot() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slot++

	return m.slot
}

func writeResponse(w http.ResponseWriter, id json.RawMessage, result any, rpcErr *jsonrpc.RPCError) {
	resp := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
	}

	if rpcErr != nil {
		resp["error"] = map[string]any{
			"code":    rpcErr.Code,
			"message": rpcErr.Message,
			"data":    rpcErr.Data,
		}
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(resp)
}

// withContext wraps a result value in the contextual response envelope most
// solana RPC methods respond with.
func withContext(slot uint64, value any) map[string]any {
	return map[string]any{
		"context": map[string]any{"slot": slot},
		"value":   value,
	}
}

func accountJSON(acc Account) map[string]any {
	return map[string]any{
		"lamports":   acc.Lamports,
		"owner":      acc.Owner.String(),
		"executable": acc.Executable,
		"rentEpoch":  uint64(0),
		"data":       []any{base64.StdEncoding.EncodeToString(acc.Data), "base64"},
	}
}

func unmarshalParam(params []json.RawMessage, i int, v any) error {
	if i >= len(params) {
		return errors.New("missing rpc param", z.Int("index", i))
	}

	if err := json.Unmarshal(params[i], v); err != nil {
		return errors.Wrap(err, "unmarshal rpc param", z.Int("index", i))
	}

	return nil
}

func pubkeyParam(params []json.RawMessage, i int) (solana.PublicKey, error) {
	var s string
	if err := unmarshalParam(params, i, &s); err != nil {
		return solana.PublicKey{}, err
	}

	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "parse pubkey param")
	}

	return key, nil
}

// txParam parses the leading base64 or base58 encoded transaction param.
func txParam(params []json.RawMessage) (*solana.Transaction, error) {
	var s string
	if err := unmarshalParam(params, 0, &s); err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base58.Decode(s)
		if err != nil {
			return nil, errors.New("transaction param neither base64 nor base58")
		}
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}

	return tx, nil
}

// memcmpPrefix extracts the bytes of an offset zero memcmp filter from
// getProgramAccounts config, the only filter shape the provider emits.
func memcmpPrefix(params []json.RawMessage) ([]byte, error) {
	if len(params) < 2 {
		return nil, nil
	}

	var conf struct {
		Filters []struct {
			Memcmp *struct {
				Offset uint64 `json:"offset"`
				Bytes  string `json:"bytes"`
			} `json:"memcmp"`
		} `json:"filters"`
	}

	if err := json.Unmarshal(params[1], &conf); err != nil {
		return nil, errors.Wrap(err, "unmarshal program accounts config")
	}

	for _, f := range conf.Filters {
		if f.Memcmp == nil || f.Memcmp.Offset != 0 {
			continue
		}

		prefix, err := base58.Decode(f.Memcmp.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "decode memcmp bytes")
		}

		return prefix, nil
	}

	return nil, nil
}
