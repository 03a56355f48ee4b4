// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package testutils holds helpers shared by the SNMP package tests.
package testutils

import (
	"errors"
	"net"
	"strconv"
)

// GetFreePort returns a UDP port of the loopback interface nothing listens on.
func GetFreePort() (uint16, error) {
	var lastErr error
	for i := 0; i < 5; i++ {
		conn, err := net.ListenPacket("udp", "127.0.0.1:0")
		if err != nil {
			lastErr = err
			continue
		}
		addr := conn.LocalAddr().String()
		conn.Close()
		port, err := ParsePort(addr)
		if err != nil {
			lastErr = err
			continue
		}
		return port, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no free port found")
	}
	return 0, lastErr
}

// ParsePort returns the port of a host:port address.
func ParsePort(addr string) (uint16, error) {
	_, portString, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}

	port, err := strconv.ParseUint(portString, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(port), nil
}
