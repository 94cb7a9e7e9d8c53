// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package db_test

import (
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/require"

	"github.com/padfi/launchpad-go/db"
)

func TestNewInMemory(t *testing.T) {
	bdb, err := db.New("")
	require.NoError(t, err)
	require.NoError(t, bdb.Close())
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()

	bdb, err := db.New(dir)
	require.NoError(t, err)
	require.NoError(t, bdb.Close())

	// Second open finds a supported schema stamp.
	bdb, err = db.New(dir)
	require.NoError(t, err)
	require.NoError(t, bdb.Close())
}

func TestUnsupportedSchema(t *testing.T) {
	dir := t.TempDir()

	bdb, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	require.NoError(t, err)

	err = bdb.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("schema/version"), []byte("v99.0"))
	})
	require.NoError(t, err)
	require.NoError(t, bdb.Close())

	_, err = db.New(dir)
	require.ErrorContains(t, err, "unsupported database schema version")
}
