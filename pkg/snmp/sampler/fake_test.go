// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"errors"
	"sync"

	"github.com/gosnmp/gosnmp"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/varbind"
)

// fakeSender records sent traps and runs onSend synchronously.
type fakeSender struct {
	mu     sync.Mutex
	sent   []gosnmp.SnmpTrap
	err    error
	onSend func(gosnmp.SnmpTrap)
	closed bool
}

func (f *fakeSender) SendTrap(trap gosnmp.SnmpTrap) (*gosnmp.SnmpPacket, error) {
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return nil, snmperr.NewTransportError(f.err, "cannot send trap")
	}
	f.sent = append(f.sent, trap)
	onSend := f.onSend
	f.mu.Unlock()

	if onSend != nil {
		onSend(trap)
	}
	return nil, nil
}

func (f *fakeSender) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeSender) values(oid string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var values []string
	for _, trap := range f.sent {
		if v, err := varbind.Lookup(trap.Variables, oid); err == nil {
			values = append(values, v)
		}
	}
	return values
}

// replyFrom resolves the waiter of the key carried by each sent trap, as a
// device answering on the listening socket would.
func replyFrom(registry *traps.Registry, oid string) func(gosnmp.SnmpTrap) {
	return func(trap gosnmp.SnmpTrap) {
		key, err := varbind.Lookup(trap.Variables, oid)
		if err == nil {
			registry.Resolve(key)
		}
	}
}

var errConnRefused = errors.New("connection refused")

const (
	counterOID     = "1.3.6.1.4.1.9999.1"
	correlationOID = "1.3.6.1.4.1.9999.2"
)

func exampleFields() []varbind.FieldDescriptor {
	return []varbind.FieldDescriptor{
		{OID: counterOID, Value: "42", Type: varbind.Counter32},
		{OID: correlationOID, Value: "abc-123", Type: varbind.OctetString},
	}
}
