// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package keystore reads and writes wallet keypairs in the JSON byte array
// format used by solana-keygen, so keys are interchangeable with the standard
// Solana tooling.
package keystore

import (
	"crypto/ed25519"
	"encoding/json"
	"os"

	"github.com/gagliardetto/solana-go"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

// Load reads and validates a keypair file from path.
func Load(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read keypair file", z.Str("path", path))
	}

	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid keypair file length",
			z.Str("path", path), z.Int("length", len(key)))
	}

	return key, nil
}

// Store writes the keypair to path in solana-keygen format.
// It refuses to overwrite an existing file.
func Store(path string, key solana.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return errors.New("invalid keypair length", z.Int("length", len(key)))
	}

	if _, err := os.Stat(path); err == nil {
		return errors.New("keypair file already exists", z.Str("path", path))
	}

	// encoding/json serialises []byte as base64, solana-keygen expects a plain int array.
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}

	b, err := json.Marshal(ints)
	if err != nil {
		return errors.Wrap(err, "marshal keypair")
	}

	err = os.WriteFile(path, b, 0o600)
	if err != nil {
		return errors.Wrap(err, "write keypair file", z.Str("path", path))
	}

	return nil
}

// Generate creates a new random keypair and stores it at path.
func Generate(path string) (solana.PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate keypair")
	}

	err = Store(path, key)
	if err != nil {
		return nil, err
	}

	return key, nil
}
