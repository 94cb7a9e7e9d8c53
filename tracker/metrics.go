// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package tracker

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/padfi/launchpad-go/app/promauto"
)

var (
	pollCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracker",
		Subsystem: "poll",
		Name:      "total",
		Help:      "Total number of launchpad polls by result; ok or error",
	}, []string{"result"})

	pollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tracker",
		Subsystem: "poll",
		Name:      "duration_seconds",
		Help:      "Duration of a launchpad poll in seconds",
	})

	salesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tracker",
		Subsystem: "sale",
		Name:      "count",
		Help:      "Number of registered token sales",
	})

	roundsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tracker",
		Subsystem: "round",
		Name:      "count",
		Help:      "Number of sale rounds across all token sales",
	})

	raisedGauge = promauto.NewResetGaugeVec(prometheus.GaugeOpts{
		Namespace: "tracker",
		Subsystem: "sale",
		Name:      "raised_lamports",
		Help:      "Lamports raised per token sale",
	}, []string{"sale"})

	activeGauge = promauto.NewResetGaugeVec(prometheus.GaugeOpts{
		Namespace: "tracker",
		Subsystem: "sale",
		Name:      "active",
		Help:      "Whether the token sale is active (1) or closed (0)",
	}, []string{"sale"})

	soldGauge = promauto.NewResetGaugeVec(prometheus.GaugeOpts{
		Namespace: "tracker",
		Subsystem: "round",
		Name:      "tokens_sold",
		Help:      "Base token units sold per sale round",
	}, []string{"round"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tracker",
		Subsystem: "api",
		Name:      "request_latency_seconds",
		Help:      "Monitoring API request latencies in seconds by endpoint",
	}, []string{"endpoint"})

	apiErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracker",
		Subsystem: "api",
		Name:      "request_error_total",
		Help:      "Total number of monitoring API request errors",
	}, []string{"endpoint", "status_code"})
)

func incAPIErrors(endpoint string, statusCode int) {
	apiErrors.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

func observeAPILatency(endpoint string) func() {
	t0 := time.Now()

	return func() {
		apiLatency.WithLabelValues(endpoint).Observe(time.Since(t0).Seconds())
	}
}
