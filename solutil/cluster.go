// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package solutil provides Solana cluster metadata and native token unit helpers.
package solutil

import (
	"strings"
	"sync"
	"time"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/z"
)

// Cluster contains information about a Solana cluster.
type Cluster struct {
	// Name is the well-known cluster moniker.
	Name string
	// GenesisHash identifies the cluster; empty for ephemeral local validators.
	GenesisHash string
	// RPC is the default JSON-RPC endpoint of the cluster.
	RPC string
	// WS is the default websocket pubsub endpoint of the cluster.
	WS string
	// SlotDuration is the target slot duration of the cluster.
	SlotDuration time.Duration
}

// IsLocal returns true if the cluster is an ephemeral local validator.
func (c Cluster) IsLocal() bool {
	return c.Name == Localnet.Name
}

// Pre-defined cluster configurations.
var (
	MainnetBeta = Cluster{
		Name:         "mainnet-beta",
		GenesisHash:  "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d",
		RPC:          "https://api.mainnet-beta.solana.com",
		WS:           "wss://api.mainnet-beta.solana.com",
		SlotDuration: 400 * time.Millisecond,
	}
	Devnet = Cluster{
		Name:         "devnet",
		GenesisHash:  "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG",
		RPC:          "https://api.devnet.solana.com",
		WS:           "wss://api.devnet.solana.com",
		SlotDuration: 400 * time.Millisecond,
	}
	Testnet = Cluster{
		Name:         "testnet",
		GenesisHash:  "4uhcVJyU9pJkvQyS88uRDiswHXSCkY3zQawwpjk2NsNY",
		RPC:          "https://api.testnet.solana.com",
		WS:           "wss://api.testnet.solana.com",
		SlotDuration: 400 * time.Millisecond,
	}
	// Localnet matches solana-test-validator defaults. Its genesis hash is
	// random per validator instance so it is left empty here.
	Localnet = Cluster{
		Name:         "localnet",
		RPC:          "http://127.0.0.1:8899",
		WS:           "ws://127.0.0.1:8900",
		SlotDuration: 400 * time.Millisecond,
	}
)

var (
	clustersMu        sync.RWMutex
	currentCluster    *Cluster
	supportedClusters = []Cluster{
		MainnetBeta, Devnet, Testnet, Localnet,
	}
)

// SetCurrentCluster sets the current cluster from the genesis hash reported
// by an RPC node. Unknown genesis hashes are assumed to be ephemeral local
// validators. Only the first call has effect.
func SetCurrentCluster(genesisHash string) Cluster {
	clustersMu.Lock()
	defer clustersMu.Unlock()

	if currentCluster != nil {
		return *currentCluster
	}

	for _, c := range supportedClusters {
		if c.GenesisHash != "" && c.GenesisHash == genesisHash {
			currentCluster = &c
			return c
		}
	}

	local := Localnet
	local.GenesisHash = genesisHash
	currentCluster = &local

	return local
}

// SetCustomClusterForTest is used for testing purposes to override the current cluster.
func SetCustomClusterForTest(cluster *Cluster) {
	clustersMu.Lock()
	defer clustersMu.Unlock()

	currentCluster = cluster
}

// CurrentCluster returns the current cluster.
func CurrentCluster() Cluster {
	clustersMu.RLock()
	defer clustersMu.RUnlock()

	if currentCluster == nil {
		panic("current cluster is not set")
	}

	return *currentCluster
}

// AddTestCluster adds given cluster to the list of supported clusters.
func AddTestCluster(cluster Cluster) {
	clustersMu.Lock()
	defer clustersMu.Unlock()

	supportedClusters = append(supportedClusters, cluster)
}

// ClusterFromName returns the cluster with the given moniker from the list of
// supported clusters.
func ClusterFromName(name string) (Cluster, error) {
	clustersMu.RLock()
	defer clustersMu.RUnlock()

	for _, cluster := range supportedClusters {
		if strings.EqualFold(name, cluster.Name) {
			return cluster, nil
		}
	}

	return Cluster{}, errors.New("invalid cluster name", z.Str("cluster", name))
}

// ClusterFromGenesisHash returns the cluster with the given genesis hash from
// the list of supported clusters.
func ClusterFromGenesisHash(genesisHash string) (Cluster, error) {
	clustersMu.RLock()
	defer clustersMu.RUnlock()

	for _, cluster := range supportedClusters {
		if cluster.GenesisHash != "" && cluster.GenesisHash == genesisHash {
			return cluster, nil
		}
	}

	return Cluster{}, errors.New("unknown genesis hash", z.Str("genesis_hash", genesisHash))
}
