// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traps

import (
	"bufio"
	"bytes"
	"net"
	"testing"

	"github.com/cihub/seelog"
	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

const correlationOID = "1.3.6.1.4.1.9999.2"

var remoteAddr = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50162}

func v2Packet(community string, variables ...gosnmp.SnmpPDU) *gosnmp.SnmpPacket {
	header := []gosnmp.SnmpPDU{
		{Name: ".1.3.6.1.2.1.1.3.0", Type: gosnmp.TimeTicks, Value: uint32(1000)},
		{Name: ".1.3.6.1.6.3.1.1.4.1.0", Type: gosnmp.ObjectIdentifier, Value: ".1.3.6.1.4.1.9999.0.1"},
	}
	return &gosnmp.SnmpPacket{
		Version:   gosnmp.Version2c,
		Community: community,
		PDUType:   gosnmp.SNMPv2Trap,
		Variables: append(header, variables...),
	}
}

func keyField(value string) gosnmp.SnmpPDU {
	return gosnmp.SnmpPDU{Name: "." + correlationOID, Type: gosnmp.OctetString, Value: []byte(value)}
}

func TestHandleTrapResolvesWaiter(t *testing.T) {
	l := newCorrelationListener(ListenerConfig{CorrelationOID: correlationOID})

	w, err := l.Register("abc-123")
	require.NoError(t, err)

	l.handleTrap(v2Packet("public", keyField("abc-123")), remoteAddr)

	assert.True(t, isDone(w))
	assert.Equal(t, 0, l.Pending())
	assert.Equal(t, uint64(1), l.Stats().Received.Load())
	assert.Equal(t, uint64(1), l.Stats().Matched.Load())
}

func TestHandleTrapOrphan(t *testing.T) {
	l := newCorrelationListener(ListenerConfig{CorrelationOID: correlationOID})

	w, err := l.Register("K2")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		l.handleTrap(v2Packet("public", keyField("K1")), remoteAddr)
	})

	assert.False(t, isDone(w))
	assert.Equal(t, 1, l.Pending())
	assert.Equal(t, uint64(1), l.Stats().Orphaned.Load())
}

func TestHandleTrapMissingCorrelationField(t *testing.T) {
	l := newCorrelationListener(ListenerConfig{CorrelationOID: correlationOID})

	w, err := l.Register("")
	require.NoError(t, err)

	// absence is never an empty-string match
	l.handleTrap(v2Packet("public", gosnmp.SnmpPDU{Name: ".1.3.6.1.4.1.9999.1", Type: gosnmp.Counter32, Value: uint(42)}), remoteAddr)

	assert.False(t, isDone(w))
	assert.Equal(t, uint64(1), l.Stats().Invalid.Load())
}

func TestHandleTrapCommunity(t *testing.T) {
	l := newCorrelationListener(ListenerConfig{CorrelationOID: correlationOID, Community: "secret"})

	w, err := l.Register("abc")
	require.NoError(t, err)

	l.handleTrap(v2Packet("public", keyField("abc")), remoteAddr)
	assert.False(t, isDone(w))
	assert.Equal(t, uint64(1), l.Stats().Invalid.Load())

	l.handleTrap(v2Packet("secret", keyField("abc")), remoteAddr)
	assert.True(t, isDone(w))
}

func TestHandleTrapIgnoresOtherPDUs(t *testing.T) {
	l := newCorrelationListener(ListenerConfig{CorrelationOID: correlationOID})

	w, err := l.Register("abc")
	require.NoError(t, err)

	packet := v2Packet("public", keyField("abc"))
	packet.PDUType = gosnmp.GetResponse
	l.handleTrap(packet, remoteAddr)

	assert.False(t, isDone(w))
	assert.Equal(t, uint64(1), l.Stats().Invalid.Load())
}

func TestHandleTrapNumericCorrelationField(t *testing.T) {
	l := newCorrelationListener(ListenerConfig{CorrelationOID: "." + correlationOID})

	w, err := l.Register("42")
	require.NoError(t, err)

	l.handleTrap(v2Packet("public", gosnmp.SnmpPDU{Name: "." + correlationOID, Type: gosnmp.Counter32, Value: uint(42)}), remoteAddr)
	assert.True(t, isDone(w))
}

func TestHandleTrapEmptyPacket(t *testing.T) {
	l := newCorrelationListener(ListenerConfig{CorrelationOID: correlationOID})

	assert.NotPanics(t, func() {
		l.handleTrap(&gosnmp.SnmpPacket{PDUType: gosnmp.SNMPv2Trap}, nil)
	})
}

func TestCloseUnboundListener(t *testing.T) {
	l := newCorrelationListener(ListenerConfig{CorrelationOID: correlationOID})
	assert.NotPanics(t, l.Close)
	assert.NotPanics(t, l.Close)
}

func TestHandleTrapTracesNotification(t *testing.T) {
	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	l, err := seelog.LoggerFromWriterWithMinLevelAndFormat(w, seelog.TraceLvl, "[%LEVEL] %Msg\n")
	require.NoError(t, err)
	log.SetupLogger(l, "trace")
	t.Cleanup(func() { log.SetupLogger(seelog.Disabled, "off") })

	listener := newCorrelationListener(ListenerConfig{CorrelationOID: correlationOID})
	listener.handleTrap(v2Packet("public", keyField("abc-123")), remoteAddr)
	w.Flush()
	assert.Contains(t, b.String(), "1.3.6.1.4.1.9999.2 = abc-123")

	// formatting is skipped above trace level
	b.Reset()
	require.NoError(t, log.ChangeLogLevel("debug"))
	listener.handleTrap(v2Packet("public", keyField("abc-124")), remoteAddr)
	w.Flush()
	assert.NotContains(t, b.String(), "9999.2 = abc-124")
}
