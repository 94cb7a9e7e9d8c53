// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package provider

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/padfi/launchpad-go/app/promauto"
)

var (
	rpcLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "provider",
		Subsystem: "rpc",
		Name:      "latency_seconds",
		Help:      "RPC request latency by endpoint and method",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"endpoint", "method"})

	rpcErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "provider",
		Subsystem: "rpc",
		Name:      "error_total",
		Help:      "Total count of failed RPC requests by endpoint and method",
	}, []string{"endpoint", "method"})

	txSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "provider",
		Subsystem: "tx",
		Name:      "total",
		Help:      "Total count of submitted transactions by result",
	}, []string{"result"})

	confirmLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "provider",
		Subsystem: "tx",
		Name:      "confirm_latency_seconds",
		Help:      "Latency from transaction submission to confirmation",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	})
)

func incTxResult(result string) {
	txSubmitted.WithLabelValues(result).Inc()
}
