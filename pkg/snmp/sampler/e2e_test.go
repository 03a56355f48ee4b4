// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/testutils"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
)

func freePort(t *testing.T) uint16 {
	t.Helper()
	port, err := testutils.GetFreePort()
	require.NoError(t, err)
	return port
}

// endToEnd points a request/response sampler at a reflector that answers on
// the sampler listening port after delay.
func endToEnd(t *testing.T, delay time.Duration) (*Sampler, *traps.Provider) {
	t.Helper()
	listenPort := freePort(t)
	devicePort := freePort(t)

	reflector, err := traps.StartReflector(traps.ReflectorConfig{
		Listen: traps.ListenerConfig{Address: "127.0.0.1", Port: devicePort, StopTimeout: time.Second},
		Reply:  traps.SenderConfig{Address: "127.0.0.1", Port: listenPort, Community: "public", Timeout: time.Second},
		Delay:  delay,
	})
	require.NoError(t, err)
	t.Cleanup(reflector.Close)

	p := requestResponseProperties()
	p.DestinationPort = strconv.Itoa(int(devicePort))
	p.ListeningAddress = "127.0.0.1"
	p.ListeningPort = strconv.Itoa(int(listenPort))

	provider := traps.NewProvider()
	t.Cleanup(provider.Close)

	s := New(p, provider)
	require.NoError(t, s.ThreadStarted())
	t.Cleanup(s.ThreadFinished)
	return s, provider
}

func TestEndToEndReply(t *testing.T) {
	s, provider := endToEnd(t, 50*time.Millisecond)

	result := s.Sample(context.Background())

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "abc-123", result.Key)
	assert.GreaterOrEqual(t, result.Elapsed, 50*time.Millisecond)
	assert.Less(t, result.Elapsed, 500*time.Millisecond)
	assert.Equal(t, 0, provider.Current().Pending())
}

func TestEndToEndNoReply(t *testing.T) {
	listenPort := freePort(t)
	p := requestResponseProperties()
	p.DestinationPort = strconv.Itoa(int(freePort(t)))
	p.ListeningAddress = "127.0.0.1"
	p.ListeningPort = strconv.Itoa(int(listenPort))

	provider := traps.NewProvider()
	defer provider.Close()
	s := New(p, provider)
	require.NoError(t, s.ThreadStarted())
	defer s.ThreadFinished()

	result := s.Sample(context.Background())

	assert.False(t, result.Success)
	assert.True(t, snmperr.IsTimeout(result.Err))
	assert.Contains(t, result.Message, "abc-123")
	assert.Contains(t, result.Message, "500")
	assert.GreaterOrEqual(t, result.Elapsed, 500*time.Millisecond)
	assert.Less(t, result.Elapsed, time.Second)
	assert.Equal(t, 0, provider.Current().Pending())
}

func TestEndToEndWorkersShareListener(t *testing.T) {
	s, provider := endToEnd(t, 0)
	listener := provider.Current()

	p := s.props
	p.Varbinds = append([]VarbindProperties(nil), p.Varbinds...)
	p.Varbinds[1].Value = "other-key"
	other := New(p, provider)
	require.NoError(t, other.ThreadStarted())
	defer other.ThreadFinished()

	assert.Same(t, listener, provider.Current())
	require.True(t, s.Sample(context.Background()).Success)
	require.True(t, other.Sample(context.Background()).Success)
}
