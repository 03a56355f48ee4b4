// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package correlatorimpl implements the correlator component.
package correlatorimpl

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/jchmura/jmeter-snmp/comp/core/config"
	"github.com/jchmura/jmeter-snmp/comp/snmptraps/correlator"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// Module defines the fx options for this component.
func Module() fx.Option {
	return fx.Module("correlator",
		fx.Provide(newCorrelator),
	)
}

type dependencies struct {
	fx.In
	Lc     fx.Lifecycle
	Config config.Component
}

type provides struct {
	fx.Out
	Comp correlator.Component
}

// correlatorImpl binds the listener lazily: request only plans never open it.
type correlatorImpl struct {
	*traps.Provider
	stopTimeout time.Duration
}

func newCorrelator(deps dependencies) provides {
	c := &correlatorImpl{
		Provider:    traps.NewProvider(),
		stopTimeout: time.Duration(deps.Config.GetInt("runner.stop_timeout")) * time.Second,
	}
	deps.Lc.Append(fx.Hook{
		OnStop: c.stop,
	})
	return provides{Comp: c}
}

// GetOrCreate applies the configured stop timeout to the listener.
func (c *correlatorImpl) GetOrCreate(listenerConfig traps.ListenerConfig) (*traps.CorrelationListener, error) {
	if listenerConfig.StopTimeout == 0 {
		listenerConfig.StopTimeout = c.stopTimeout
	}
	return c.Provider.GetOrCreate(listenerConfig)
}

func (c *correlatorImpl) stop(context.Context) error {
	if l := c.Current(); l != nil {
		stats := l.Stats()
		log.Infof("Correlation listener on %s received %d notification(s): %d matched, %d orphaned, %d invalid",
			l.Addr(), stats.Received.Load(), stats.Matched.Load(), stats.Orphaned.Load(), stats.Invalid.Load())
		if pending := l.Pending(); pending > 0 {
			log.Warnf("%d exchange(s) still waiting for a reply at shutdown", pending)
		}
	}
	c.Close()
	return nil
}
