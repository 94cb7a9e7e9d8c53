// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package db provides the embedded badger database persisting tracker state
// across restarts.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v3"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/version"
	"github.com/padfi/launchpad-go/app/z"
)

// ErrNotFound is returned when a key is not present in the database.
var ErrNotFound = errors.NewSentinel("not found")

var schemaKey = []byte("schema/version")

// New returns an opened badger database at the given directory, creating it
// if it does not exist. An empty directory opens an ephemeral in-memory
// database.
func New(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(logger{
		ctx: log.WithTopic(context.Background(), "bdb"),
	})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open database", z.Str("dir", dir))
	}

	if err := checkSchema(bdb); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	return bdb, nil
}

// checkSchema verifies the database was written by a supported version,
// stamping new databases with the current version.
func checkSchema(bdb *badger.DB) error {
	var stored string

	err := bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(schemaKey)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			stored = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return bdb.Update(func(txn *badger.Txn) error {
			return txn.Set(schemaKey, []byte(version.Version.String()))
		})
	} else if err != nil {
		return errors.Wrap(err, "read schema version")
	}

	semver, err := version.Parse(stored)
	if err != nil {
		return errors.Wrap(err, "parse schema version")
	}

	for _, supported := range version.Supported() {
		if version.Compare(semver.Minor(), supported) == 0 {
			return nil
		}
	}

	return errors.New("unsupported database schema version, delete the data directory to reset",
		z.Str("version", stored))
}

// logger routes badger logs into the structured logger. Badger info logs are
// chatty compaction details so they map to debug.
type logger struct {
	ctx context.Context
}

func (l logger) Errorf(format string, args ...any) {
	log.Error(l.ctx, sprint(format, args...), nil)
}

func (l logger) Warningf(format string, args ...any) {
	log.Warn(l.ctx, sprint(format, args...), nil)
}

func (l logger) Infof(format string, args ...any) {
	log.Debug(l.ctx, sprint(format, args...))
}

func (l logger) Debugf(format string, args ...any) {
	log.Debug(l.ctx, sprint(format, args...))
}

func sprint(format string, args ...any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
