// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traps

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

const (
	metricsNamespace = "snmp_trap_sampler"

	reasonCommunity    = "community"
	reasonMissingField = "missing_field"
	reasonPDUType      = "pdu_type"
)

var (
	trapsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "traps_received_total",
		Help:      "Total number of notifications received by the correlation listener",
	})
	trapsOrphaned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "orphaned_total",
		Help:      "Total number of received notifications matching no pending waiter",
	})
	trapsInvalid = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "invalid_total",
		Help:      "Total number of received notifications dropped before correlation",
	}, []string{"reason"})
	pendingWaiters = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "pending_waiters",
		Help:      "Number of exchanges waiting for a correlated reply",
	})
)

func init() {
	prometheus.MustRegister(trapsReceived, trapsOrphaned, trapsInvalid, pendingWaiters)
}

// Stats counts what a single listener did with the notifications it received.
type Stats struct {
	Received atomic.Uint64
	Matched  atomic.Uint64
	Orphaned atomic.Uint64
	Invalid  atomic.Uint64
}

func (s *Stats) received() {
	s.Received.Inc()
	trapsReceived.Inc()
}

func (s *Stats) matched() {
	s.Matched.Inc()
}

func (s *Stats) orphaned() {
	s.Orphaned.Inc()
	trapsOrphaned.Inc()
}

func (s *Stats) invalid(reason string) {
	s.Invalid.Inc()
	trapsInvalid.WithLabelValues(reason).Inc()
}
