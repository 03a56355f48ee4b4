// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traps

import (
	"net"
	"sync"

	"github.com/cihub/seelog"
	"github.com/gosnmp/gosnmp"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/varbind"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// CorrelationListener receives notifications on one local address and wakes
// the waiter registered under the value of their correlation field.
type CorrelationListener struct {
	*Registry

	config    ListenerConfig
	listener  *gosnmp.TrapListener
	stats     *Stats
	closeOnce sync.Once
}

func newCorrelationListener(config ListenerConfig) *CorrelationListener {
	return &CorrelationListener{
		Registry: NewRegistry(),
		config:   config,
		stats:    &Stats{},
	}
}

// StartCorrelationListener binds a new correlation listener. Most callers
// should go through a Provider so that a single listener is shared.
func StartCorrelationListener(config ListenerConfig) (*CorrelationListener, error) {
	l := newCorrelationListener(config)
	listener, err := startSNMPv2Listener(config.BuildParams(), config.Addr(), l.handleTrap)
	if err != nil {
		return nil, err
	}
	l.listener = listener
	return l, nil
}

// Addr returns the address the listener was asked to bind.
func (l *CorrelationListener) Addr() string {
	return l.config.Addr()
}

// CorrelationOID returns the identifier of the correlation field.
func (l *CorrelationListener) CorrelationOID() string {
	return varbind.NormalizeOID(l.config.CorrelationOID)
}

// Stats returns the listener counters.
func (l *CorrelationListener) Stats() *Stats {
	return l.stats
}

// handleTrap runs on the gosnmp receive goroutine.
func (l *CorrelationListener) handleTrap(p *gosnmp.SnmpPacket, addr *net.UDPAddr) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Unexpected panic while handling trap from %s: %v", sourceOf(addr), r)
		}
	}()

	l.stats.received()
	if log.ShouldLog(seelog.TraceLvl) {
		log.Tracef("Notification from %s: %s", sourceOf(addr), &varbind.Notification{Variables: p.Variables})
	}

	if p.PDUType != gosnmp.SNMPv2Trap && p.PDUType != gosnmp.InformRequest {
		log.Debugf("Dropping %v packet from %s, only SNMPv2 notifications are correlated", p.PDUType, sourceOf(addr))
		l.stats.invalid(reasonPDUType)
		return
	}

	if !l.validCommunity(p) {
		log.Warnf("Invalid credentials from %s on listener %s, dropping packet", sourceOf(addr), l.Addr())
		l.stats.invalid(reasonCommunity)
		return
	}

	key, err := varbind.Lookup(p.Variables, l.config.CorrelationOID)
	if err != nil {
		log.Warnf("Notification from %s cannot be correlated: %v", sourceOf(addr), err)
		l.stats.invalid(reasonMissingField)
		return
	}

	if !l.Resolve(key) {
		log.Infof("Orphaned notification from %s: no exchange is waiting for %s=%q", sourceOf(addr), l.CorrelationOID(), key)
		l.stats.orphaned()
		return
	}
	log.Debugf("Notification from %s resolved the exchange waiting for %q", sourceOf(addr), key)
	l.stats.matched()
}

func (l *CorrelationListener) validCommunity(p *gosnmp.SnmpPacket) bool {
	return communityMatches(p.Community, l.config.Community)
}

// Close stops receiving notifications. Waiters still registered are left to
// their own timeout.
func (l *CorrelationListener) Close() {
	l.closeOnce.Do(func() {
		if l.listener != nil {
			stopSNMPv2Listener(l.listener, l.Addr(), l.config.stopTimeout())
		}
	})
}
