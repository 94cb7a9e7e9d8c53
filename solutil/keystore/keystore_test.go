// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package keystore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/solutil/keystore"
)

func TestStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	require.NoError(t, keystore.Store(path, key))

	loaded, err := keystore.Load(path)
	require.NoError(t, err)
	require.Equal(t, key, loaded)
	require.Equal(t, key.PublicKey(), loaded.PublicKey())
}

func TestStoreExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	require.NoError(t, keystore.Store(path, key))

	err = keystore.Store(path, key)
	require.ErrorContains(t, err, "already exists")
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2,3]"), 0o600))

	_, err := keystore.Load(path)
	require.Error(t, err)

	_, err = keystore.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "read keypair file")
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")

	key, err := keystore.Generate(path)
	require.NoError(t, err)

	loaded, err := keystore.Load(path)
	require.NoError(t, err)
	require.Equal(t, key, loaded)

	// Generated files are interchangeable with solana-keygen, so they
	// must be plain int arrays, not base64.
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, byte('['), b[0])
}
