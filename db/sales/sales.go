// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package sales provides the store of observed token sale snapshots.
package sales

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gagliardetto/solana-go"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/db"
	"github.com/padfi/launchpad-go/launchpad"
)

const prefix = "sales/"

// Snapshot is an observed token sale state at a point in time.
type Snapshot struct {
	Address    solana.PublicKey    `json:"address"`
	Sale       launchpad.TokenSale `json:"sale"`
	ObservedAt time.Time           `json:"observed_at"`
}

// DB stores token sale snapshots keyed by sale account address, retaining
// the latest snapshot per sale.
type DB interface {
	Set(snapshot Snapshot) error
	Get(addr solana.PublicKey) (Snapshot, error)
	List() ([]Snapshot, error)
}

// New returns a snapshot store backed by the given database.
func New(bdb *badger.DB) DB {
	return store{db: bdb}
}

type store struct {
	db *badger.DB
}

func (s store) Set(snapshot Snapshot) error {
	if snapshot.Address.IsZero() {
		return errors.New("snapshot missing sale address")
	}

	val, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(toKey(snapshot.Address), val)
	})
	if err != nil {
		return errors.Wrap(err, "store snapshot")
	}

	return nil
}

func (s store) Get(addr solana.PublicKey) (Snapshot, error) {
	var res Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(toKey(addr))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &res)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Snapshot{}, errors.Wrap(db.ErrNotFound, "unknown sale", z.Str("address", addr.String()))
	} else if err != nil {
		return Snapshot{}, errors.Wrap(err, "load snapshot")
	}

	return res, nil
}

func (s store) List() ([]Snapshot, error) {
	var res []Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         []byte(prefix),
			PrefetchValues: true,
			PrefetchSize:   100,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var snapshot Snapshot

			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snapshot)
			})
			if err != nil {
				return err
			}

			res = append(res, snapshot)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list snapshots")
	}

	return res, nil
}

func toKey(addr solana.PublicKey) []byte {
	return []byte(prefix + addr.String())
}
