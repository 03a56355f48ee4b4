// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traps

import (
	"net"
	"strconv"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
)

// SenderConfig holds the destination of outbound notifications.
type SenderConfig struct {
	Address   string
	Port      uint16
	Community string
	Timeout   time.Duration
}

// Addr returns the destination host:port.
func (c SenderConfig) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(int(c.Port)))
}

// Sender sends SNMPv2c notifications to one destination over UDP.
type Sender struct {
	config SenderConfig
	params *gosnmp.GoSNMP
}

// NewSender opens the UDP socket of a sender.
func NewSender(config SenderConfig) (*Sender, error) {
	params := &gosnmp.GoSNMP{
		Target:    config.Address,
		Port:      config.Port,
		Transport: "udp",
		Community: config.Community,
		Version:   gosnmp.Version2c,
		Timeout:   config.Timeout,
		Retries:   0,
		Logger:    gosnmp.NewLogger(&trapLogger{}),
	}
	if err := params.Connect(); err != nil {
		return nil, snmperr.NewTransportError(err, "cannot open sender to %s", config.Addr())
	}
	return &Sender{config: config, params: params}, nil
}

// SendTrap sends trap. gosnmp prepends sysUpTime when the first variable is
// not a TimeTicks.
func (s *Sender) SendTrap(trap gosnmp.SnmpTrap) (*gosnmp.SnmpPacket, error) {
	packet, err := s.params.SendTrap(trap)
	if err != nil {
		return nil, snmperr.NewTransportError(err, "cannot send trap to %s", s.config.Addr())
	}
	return packet, nil
}

// Addr returns the destination address.
func (s *Sender) Addr() string {
	return s.config.Addr()
}

// Close releases the sender socket.
func (s *Sender) Close() error {
	if s.params.Conn == nil {
		return nil
	}
	return s.params.Conn.Close()
}
