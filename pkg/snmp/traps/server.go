// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2020-present Datadog, Inc.

package traps

import (
	"net"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// startSNMPv2Listener binds a trap listener on addr and returns once it is
// ready to receive, or with the bind error.
func startSNMPv2Listener(params *gosnmp.GoSNMP, addr string, onTrap gosnmp.TrapHandlerFunc) (*gosnmp.TrapListener, error) {
	listener := gosnmp.NewTrapListener()
	listener.Params = params
	listener.OnNewTrap = onTrap

	errors := make(chan error, 1)

	// Start actually listening in the background.
	go func() {
		log.Infof("Start listening for traps on %s", addr)
		err := listener.Listen(addr)
		if err != nil {
			errors <- err
		}
	}()

	select {
	// Wait for listener to be started and listening to traps.
	// See: https://godoc.org/github.com/gosnmp/gosnmp#TrapListener.Listening
	case <-listener.Listening():
		break
	// If the listener failed to start (eg because it couldn't bind to a socket),
	// we'll get an error here.
	case err := <-errors:
		return nil, snmperr.NewTransportError(err, "cannot listen for traps on %s", addr)
	}

	return listener, nil
}

// stopSNMPv2Listener closes listener, giving up after timeout.
func stopSNMPv2Listener(listener *gosnmp.TrapListener, addr string, timeout time.Duration) {
	stopped := make(chan interface{})

	go func() {
		log.Infof("Stop listening on %s", addr)
		listener.Close()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(timeout):
		log.Errorf("Stopping listener on %s. Timeout after %s", addr, timeout)
	}
}

func sourceOf(addr *net.UDPAddr) string {
	if addr == nil {
		return "<unknown>"
	}
	return addr.String()
}
