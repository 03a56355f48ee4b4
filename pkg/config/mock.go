// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"strings"
	"sync"
	"testing"
)

var m = sync.Mutex{}

// Mock replaces the global configuration with a fresh one holding only the
// defaults, and restores the previous one when the test ends.
func Mock(t testing.TB) Config {
	m.Lock()
	defer m.Unlock()

	old := Sampler
	t.Cleanup(func() {
		m.Lock()
		defer m.Unlock()
		Sampler = old
	})

	Sampler = NewConfig("trapsampler", "TRAPSAMPLER", strings.NewReplacer(".", "_"))
	InitConfig(Sampler)
	return Sampler
}
