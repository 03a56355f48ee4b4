// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traps

import (
	"sync"

	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// Provider owns the correlation listener shared by every exchange of a run.
// The listener is created on first use and kept until Close.
type Provider struct {
	mu       sync.Mutex
	listener *CorrelationListener
	start    func(ListenerConfig) (*CorrelationListener, error)
}

// NewProvider returns a provider that binds listeners over UDP.
func NewProvider() *Provider {
	return &Provider{start: StartCorrelationListener}
}

// GetOrCreate returns the shared listener, binding it with config on the first
// call. Once a listener exists config is ignored. A bind failure is returned
// and the next call tries again.
func (p *Provider) GetOrCreate(config ListenerConfig) (*CorrelationListener, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.listener != nil {
		if !p.listener.config.sameAs(config) {
			log.Warnf("Correlation listener already running on %s with correlation field %s, ignoring requested %s with %s",
				p.listener.Addr(), p.listener.CorrelationOID(), config.Addr(), config.CorrelationOID)
		}
		return p.listener, nil
	}

	listener, err := p.start(config)
	if err != nil {
		return nil, err
	}
	p.listener = listener
	return listener, nil
}

// Current returns the shared listener, or nil if none was created yet.
func (p *Provider) Current() *CorrelationListener {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listener
}

// Close stops the shared listener. A later GetOrCreate binds a new one.
func (p *Provider) Close() {
	p.mu.Lock()
	listener := p.listener
	p.listener = nil
	p.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
}
