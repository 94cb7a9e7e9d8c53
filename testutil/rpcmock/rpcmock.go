// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package rpcmock provides a mock solana JSON-RPC node for testing.
// Create a new instance with default behaviour via New and then override
// any method function. Canned account state is served via SetAccount.
package rpcmock

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// GenesisHash is the static genesis hash the mock responds with by default.
var GenesisHash = solana.Hash(sha256.Sum256([]byte("rpcmock")))

// Account is canned account state served by the mock.
type Account struct {
	Owner      solana.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool
}

// KeyedAccount is an account and its address, as returned by
// getProgramAccounts.
type KeyedAccount struct {
	Pubkey  solana.PublicKey
	Account Account
}

// Mock is a mock solana JSON-RPC node. Override any exported function field
// to customise behaviour, functions returning a *jsonrpc.RPCError have it
// encoded as the JSON-RPC error response verbatim.
type Mock struct {
	srv *httptest.Server

	mu       sync.Mutex
	slot     uint64
	accounts map[solana.PublicKey]Account
	sent     []*solana.Transaction

	GetVersionFunc           func() (string, error)
	GetGenesisHashFunc       func() (solana.Hash, error)
	GetLatestBlockhashFunc   func() (solana.Hash, error)
	GetBalanceFunc           func(solana.PublicKey) (uint64, error)
	GetAccountInfoFunc       func(solana.PublicKey) (Account, bool, error)
	SendTransactionFunc      func(*solana.Transaction) (solana.Signature, error)
	GetSignatureStatusesFunc func([]solana.Signature) ([]*rpc.SignatureStatusesResult, error)
	SimulateTransactionFunc  func(*solana.Transaction) (*rpc.SimulateTransactionResult, error)
	RequestAirdropFunc       func(solana.PublicKey, uint64) (solana.Signature, error)
	GetProgramAccountsFunc   func(solana.PublicKey, []byte) ([]KeyedAccount, error)
}

// New returns a new mock node listening on a random local port, closed when
// the test ends.
func New(t *testing.T) *Mock {
	t.Helper()

	m := &Mock{
		accounts: make(map[solana.PublicKey]Account),
	}

	m.GetVersionFunc = func() (string, error) {
		return "1.18.26", nil
	}
	m.GetGenesisHashFunc = func() (solana.Hash, error) {
		return GenesisHash, nil
	}
	m.GetLatestBlockhashFunc = func() (solana.Hash, error) {
		var h solana.Hash
		_, _ = rand.Read(h[:])

		return h, nil
	}
	m.GetBalanceFunc = m.defaultBalance
	m.GetAccountInfoFunc = m.defaultAccountInfo
	m.SendTransactionFunc = m.defaultSendTransaction
	m.GetSignatureStatusesFunc = m.defaultSignatureStatuses
	m.SimulateTransactionFunc = func(*solana.Transaction) (*rpc.SimulateTransactionResult, error) {
		return &rpc.SimulateTransactionResult{Logs: []string{}}, nil
	}
	m.RequestAirdropFunc = m.defaultRequestAirdrop
	m.GetProgramAccountsFunc = m.defaultProgramAccounts

	m.srv = httptest.NewServer(m)
	t.Cleanup(m.srv.Close)

	return m
}

// Address returns the HTTP address of the mock node.
func (m *Mock) Address() string {
	return m.srv.URL
}

// SetAccount sets canned account state at the given address.
func (m *Mock) SetAccount(addr solana.PublicKey, acc Account) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts[addr] = acc
}

// SetProgram sets a canned executable program account at the given address.
func (m *Mock) SetProgram(addr solana.PublicKey) {
	m.SetAccount(addr, Account{
		Owner:      solana.BPFLoaderUpgradeableProgramID,
		Lamports:   1,
		Executable: true,
	})
}

// DeleteAccount deletes the canned account state at the given address.
func (m *Mock) DeleteAccount(addr solana.PublicKey) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.accounts, addr)
}

// SentTransactions returns the transactions submitted via sendTransaction in
// order of submission.
func (m *Mock) SentTransactions() []*solana.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*solana.Transaction(nil), m.sent...)
}

func (m *Mock) defaultBalance(addr solana.PublicKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if acc, ok := m.accounts[addr]; ok {
		return acc.Lamports, nil
	}

	return solana.LAMPORTS_PER_SOL, nil
}

func (m *Mock) defaultAccountInfo(addr solana.PublicKey) (Account, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[addr]

	return acc, ok, nil
}

func (m *Mock) defaultSendTransaction(tx *solana.Transaction) (solana.Signature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, tx)

	if len(tx.Signatures) == 0 {
		return solana.Signature{}, nil
	}

	return tx.Signatures[0], nil
}

func (m *Mock) defaultSignatureStatuses(sigs []solana.Signature) ([]*rpc.SignatureStatusesResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var resp []*rpc.SignatureStatusesResult
	for range sigs {
		resp = append(resp, &rpc.SignatureStatusesResult{
			Slot:               m.slot,
			ConfirmationStatus: rpc.ConfirmationStatusFinalized,
		})
	}

	return resp, nil
}

func (m *Mock) defaultRequestAirdrop(addr solana.PublicKey, lamports uint64) (solana.Signature, error) {
	m.mu.Lock()
	if acc, ok := m.accounts[addr]; ok {
		acc.Lamports += lamports
		m.accounts[addr] = acc
	}
	m.mu.Unlock()

	var sig solana.Signature
	_, _ = rand.Read(sig[:])

	return sig, nil
}

func (m *Mock) defaultProgramAccounts(program solana.PublicKey, prefix []byte) ([]KeyedAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var resp []KeyedAccount

	for addr, acc := range m.accounts {
		if acc.Owner != program {
			continue
		}

		if !bytes.HasPrefix(acc.Data, prefix) {
			continue
		}

		resp = append(resp, KeyedAccount{Pubkey: addr, Account: acc})
	}

	sort.Slice(resp, func(i, j int) bool {
		return resp[i].Pubkey.String() < resp[j].Pubkey.String()
	})

	return resp, nil
}
