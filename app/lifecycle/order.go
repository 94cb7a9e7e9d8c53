// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package lifecycle

//go:generate stringer -type=OrderStart -trimprefix=Start
//go:generate stringer -type=OrderStop -trimprefix=Stop

// OrderStart defines the order hooks are started.
type OrderStart int

// OrderStop defines the order hooks are stopped.
type OrderStop int

// Global ordering of start hooks.
const (
	StartMonitoringAPI OrderStart = iota
	StartPoller
)

// Global ordering of stop hooks; follows dependency tree from root to leaves.
const (
	StopPoller OrderStop = iota // High level components...
	StopMonitoringAPI
	StopProvider
	StopDatabase // Close the database last, the poller flushes into it.
)
