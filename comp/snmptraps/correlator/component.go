// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package correlator implements a component that owns the trap listener
// shared by every sampler of a run, and matches received notifications to the
// exchanges waiting for them.
package correlator

import (
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
)

// Component is the component type.
type Component interface {
	// GetOrCreate returns the shared listener, binding it on first use.
	GetOrCreate(config traps.ListenerConfig) (*traps.CorrelationListener, error)
	// Current returns the shared listener, nil until the first GetOrCreate.
	Current() *traps.CorrelationListener
}
