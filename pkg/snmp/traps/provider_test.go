// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traps

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func fakeProvider(starts *atomic.Int32, fail *atomic.Bool) *Provider {
	return &Provider{start: func(config ListenerConfig) (*CorrelationListener, error) {
		starts.Inc()
		if fail.Load() {
			return nil, errors.New("address already in use")
		}
		return newCorrelationListener(config), nil
	}}
}

func TestGetOrCreateFirstWriterWins(t *testing.T) {
	var starts atomic.Int32
	var fail atomic.Bool
	p := fakeProvider(&starts, &fail)

	first, err := p.GetOrCreate(ListenerConfig{Address: "127.0.0.1", Port: 1162, CorrelationOID: correlationOID})
	require.NoError(t, err)

	second, err := p.GetOrCreate(ListenerConfig{Address: "0.0.0.0", Port: 2162, CorrelationOID: "1.3.6.1.4.1.9999.3"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "127.0.0.1:1162", second.Addr())
	assert.Equal(t, correlationOID, second.CorrelationOID())
	assert.Equal(t, int32(1), starts.Load())
}

func TestGetOrCreateDoesNotCacheFailure(t *testing.T) {
	var starts atomic.Int32
	var fail atomic.Bool
	fail.Store(true)
	p := fakeProvider(&starts, &fail)

	config := ListenerConfig{Address: "127.0.0.1", Port: 1162, CorrelationOID: correlationOID}
	l, err := p.GetOrCreate(config)
	require.Error(t, err)
	assert.Nil(t, l)
	assert.Nil(t, p.Current())

	fail.Store(false)
	l, err = p.GetOrCreate(config)
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.Equal(t, int32(2), starts.Load())
}

func TestGetOrCreateConcurrentFirstUse(t *testing.T) {
	var starts atomic.Int32
	var fail atomic.Bool
	p := fakeProvider(&starts, &fail)

	const callers = 32
	listeners := make([]*CorrelationListener, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := p.GetOrCreate(ListenerConfig{Address: "127.0.0.1", Port: 1162, CorrelationOID: correlationOID})
			assert.NoError(t, err)
			listeners[i] = l
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), starts.Load())
	for _, l := range listeners {
		assert.Same(t, listeners[0], l)
	}
}

func TestProviderClose(t *testing.T) {
	var starts atomic.Int32
	var fail atomic.Bool
	p := fakeProvider(&starts, &fail)

	config := ListenerConfig{Address: "127.0.0.1", Port: 1162, CorrelationOID: correlationOID}
	first, err := p.GetOrCreate(config)
	require.NoError(t, err)

	p.Close()
	assert.Nil(t, p.Current())

	second, err := p.GetOrCreate(config)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
