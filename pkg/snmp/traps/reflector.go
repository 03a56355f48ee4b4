// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traps

import (
	"net"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
	"go.uber.org/atomic"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/varbind"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

const (
	sysUpTimeOID   = "1.3.6.1.2.1.1.3.0"
	snmpTrapOIDOID = "1.3.6.1.6.3.1.1.4.1.0"
)

// trapSender is implemented by Sender.
type trapSender interface {
	SendTrap(trap gosnmp.SnmpTrap) (*gosnmp.SnmpPacket, error)
}

// ReflectorConfig configures a Reflector.
type ReflectorConfig struct {
	Listen ListenerConfig
	Reply  SenderConfig
	// Delay is waited before each reply is sent.
	Delay time.Duration
}

// Reflector sends every notification it receives back to a fixed address,
// standing in for a device answering trap requests.
type Reflector struct {
	config   ReflectorConfig
	listener *gosnmp.TrapListener
	sender   trapSender
	// sendMu serializes the delayed replies on the single sender.
	sendMu    sync.Mutex
	inflight  sync.WaitGroup
	reflected atomic.Uint64
	failed    atomic.Uint64
}

// StartReflector opens the reply sender and binds the listener.
func StartReflector(config ReflectorConfig) (*Reflector, error) {
	sender, err := NewSender(config.Reply)
	if err != nil {
		return nil, err
	}
	r := &Reflector{config: config, sender: sender}

	listener, err := startSNMPv2Listener(config.Listen.BuildParams(), config.Listen.Addr(), r.handleTrap)
	if err != nil {
		sender.Close() //nolint:errcheck
		return nil, err
	}
	r.listener = listener
	return r, nil
}

// handleTrap runs on the gosnmp receive goroutine. Delayed replies are sent
// from their own timer so that concurrent requests are delayed independently.
func (r *Reflector) handleTrap(p *gosnmp.SnmpPacket, addr *net.UDPAddr) {
	if !communityMatches(p.Community, r.config.Listen.Community) {
		log.Warnf("Invalid credentials from %s on reflector %s, dropping packet", sourceOf(addr), r.config.Listen.Addr())
		return
	}

	reply := Reflect(p.Variables)
	if len(reply.Variables) == 0 {
		log.Debugf("Nothing to reflect in notification from %s", sourceOf(addr))
		return
	}
	if r.config.Delay <= 0 {
		r.send(reply, addr)
		return
	}
	r.inflight.Add(1)
	time.AfterFunc(r.config.Delay, func() {
		defer r.inflight.Done()
		r.send(reply, addr)
	})
}

func (r *Reflector) send(reply gosnmp.SnmpTrap, addr *net.UDPAddr) {
	r.sendMu.Lock()
	defer r.sendMu.Unlock()

	if _, err := r.sender.SendTrap(reply); err != nil {
		r.failed.Inc()
		log.Errorf("Cannot reflect notification from %s: %v", sourceOf(addr), err)
		return
	}
	r.reflected.Inc()
	log.Debugf("Reflected notification from %s to %s", sourceOf(addr), r.config.Reply.Addr())
}

// Reflect returns the variables of a received notification as a trap to send,
// without the sysUpTime and snmpTrapOID headers gosnmp decoded.
func Reflect(variables []gosnmp.SnmpPDU) gosnmp.SnmpTrap {
	reply := make([]gosnmp.SnmpPDU, 0, len(variables))
	for _, v := range variables {
		name := varbind.NormalizeOID(v.Name)
		if name == sysUpTimeOID || name == snmpTrapOIDOID {
			continue
		}
		v.Name = name
		v.Value = resendable(v)
		reply = append(reply, v)
	}
	return gosnmp.SnmpTrap{Variables: reply}
}

// resendable converts decoded numeric values to the Go types gosnmp encodes.
func resendable(v gosnmp.SnmpPDU) interface{} {
	switch v.Type {
	case gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		return uint32(gosnmp.ToBigInt(v.Value).Uint64())
	case gosnmp.Counter64:
		return gosnmp.ToBigInt(v.Value).Uint64()
	case gosnmp.Integer:
		return int(gosnmp.ToBigInt(v.Value).Int64())
	}
	return v.Value
}

// Reflected returns how many notifications were sent back.
func (r *Reflector) Reflected() uint64 {
	return r.reflected.Load()
}

// Failed returns how many replies could not be sent.
func (r *Reflector) Failed() uint64 {
	return r.failed.Load()
}

// Close stops the listener, sends the replies still delayed, then closes the
// reply sender.
func (r *Reflector) Close() {
	stopSNMPv2Listener(r.listener, r.config.Listen.Addr(), r.config.Listen.stopTimeout())
	r.inflight.Wait()
	if s, ok := r.sender.(*Sender); ok {
		s.Close() //nolint:errcheck
	}
}
