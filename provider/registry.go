// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package provider

import (
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

var (
	registryMu sync.RWMutex
	programs   = make(map[string]solana.PublicKey)
)

// RegisterProgram maps a program name to its deployed address, so callers
// can resolve programs by name once at startup.
func RegisterProgram(name string, id solana.PublicKey) {
	registryMu.Lock()
	defer registryMu.Unlock()

	programs[name] = id
}

// ProgramByName returns the address registered under the given program name.
func ProgramByName(name string) (solana.PublicKey, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	id, ok := programs[name]
	if !ok {
		return solana.PublicKey{}, errors.New("unknown program name", z.Str("program", name))
	}

	return id, nil
}
