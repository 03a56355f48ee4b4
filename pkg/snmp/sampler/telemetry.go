// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	exchangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snmp_trap_sampler",
		Name:      "exchanges_total",
		Help:      "Total number of trap exchanges by communication style and status",
	}, []string{"style", "status"})
	exchangeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "snmp_trap_sampler",
		Name:      "exchange_duration_seconds",
		Help:      "Duration of trap exchanges in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"style"})
)

func init() {
	prometheus.MustRegister(exchangesTotal, exchangeDuration)
}

func observe(style CommunicationStyle, r *Result) {
	status := "success"
	if !r.Success {
		status = "failure"
	}
	exchangesTotal.WithLabelValues(style.String(), status).Inc()
	exchangeDuration.WithLabelValues(style.String()).Observe(r.Elapsed.Seconds())
}
