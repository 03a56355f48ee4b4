// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchmura/jmeter-snmp/pkg/config"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/varbind"
)

func requestResponseProperties() Properties {
	return Properties{
		CommunicationStyle: "Request Response",
		DestinationAddress: "127.0.0.1",
		DestinationPort:    "162",
		ListeningAddress:   "0.0.0.0",
		ListeningPort:      "1162",
		Community:          "public",
		CorrelationOID:     correlationOID,
		Timeout:            "500",
		Varbinds: []VarbindProperties{
			{OID: counterOID, Value: "42", Type: "Counter32"},
			{OID: correlationOID, Value: "abc-123", Type: "OctetString"},
		},
	}
}

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig(requestResponseProperties())
	require.NoError(t, err)

	assert.Equal(t, RequestResponse, c.Style)
	assert.Equal(t, "127.0.0.1:162", c.Destination.Addr())
	assert.Equal(t, "public", c.Destination.Community)
	assert.Equal(t, "0.0.0.0:1162", c.Listener.Addr())
	assert.Equal(t, correlationOID, c.Listener.CorrelationOID)
	assert.Equal(t, 500*time.Millisecond, c.Timeout)
	assert.Equal(t, exampleFields(), c.Fields)
}

func TestParseConfigRequestOnlyIgnoresListener(t *testing.T) {
	p := requestResponseProperties()
	p.CommunicationStyle = "Request Only"
	p.ListeningPort = "not-a-port"
	p.CorrelationOID = ""

	c, err := ParseConfig(p)
	require.NoError(t, err)
	assert.Equal(t, RequestOnly, c.Style)
}

func TestParseConfigAggregatesErrors(t *testing.T) {
	p := requestResponseProperties()
	p.DestinationPort = "70000"
	p.Timeout = "soon"
	p.CorrelationOID = "not.an.oid"
	p.Varbinds = append(p.Varbinds, VarbindProperties{OID: "1.3.6.1", Value: "x", Type: "Bits"})

	_, err := ParseConfig(p)
	require.Error(t, err)
	assert.True(t, snmperr.IsConfiguration(err))
	for _, expected := range []string{"destination_port", "timeout", "correlation_oid", "Bits"} {
		assert.Contains(t, err.Error(), expected)
	}
}

func TestParseConfigRequiresVarbinds(t *testing.T) {
	p := requestResponseProperties()
	p.Varbinds = nil

	_, err := ParseConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one varbind")
}

func TestParseConfigRejectsZeroTimeoutForReplies(t *testing.T) {
	p := requestResponseProperties()
	p.Timeout = "0"

	_, err := ParseConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be positive")
}

func TestParseConfigRejectsEmptyAddress(t *testing.T) {
	p := requestResponseProperties()
	p.DestinationAddress = ""

	_, err := ParseConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination_address is required")
}

func TestPropertiesFromConfig(t *testing.T) {
	cfg, err := config.NewFromYAML(`
sampler:
  communication_style: Request Response
  destination_address: 10.0.0.5
  destination_port: 10162
  correlation_oid: 1.3.6.1.4.1.9999.2
  timeout: 500
  varbinds:
    - oid: 1.3.6.1.4.1.9999.1
      value: "42"
      type: Counter32
    - oid: 1.3.6.1.4.1.9999.2
      value: abc-123
      type: OctetString
`)
	require.NoError(t, err)

	p, err := PropertiesFrom(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Request Response", p.CommunicationStyle)
	assert.Equal(t, "10162", p.DestinationPort)
	assert.Equal(t, "1162", p.ListeningPort)
	assert.Equal(t, "public", p.Community)
	assert.Equal(t, "500", p.Timeout)
	require.Len(t, p.Varbinds, 2)
	assert.Equal(t, VarbindProperties{OID: "1.3.6.1.4.1.9999.2", Value: "abc-123", Type: "OctetString"}, p.Varbinds[1])

	c, err := ParseConfig(p)
	require.NoError(t, err)
	assert.Equal(t, varbind.Counter32, c.Fields[0].Type)
}
