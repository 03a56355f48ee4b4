// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2018-present Datadog, Inc.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	config := Mock(t)

	assert.Equal(t, "Request Only", config.GetString("sampler.communication_style"))
	assert.Equal(t, "162", config.GetString("sampler.destination_port"))
	assert.Equal(t, "1162", config.GetString("sampler.listening_port"))
	assert.Equal(t, "public", config.GetString("sampler.community"))
	assert.Equal(t, "1000", config.GetString("sampler.timeout"))
	assert.Equal(t, 1, config.GetInt("runner.workers"))
	assert.Equal(t, "info", config.GetString("log_level"))
}

func TestNewFromYAML(t *testing.T) {
	config, err := NewFromYAML(`
sampler:
  communication_style: Request Response
  destination_port: 10162
  correlation_oid: 1.3.6.1.4.1.9999.2
  timeout: 500
  varbinds:
    - oid: 1.3.6.1.4.1.9999.1
      value: 42
      type: Counter32
runner:
  workers: 8
`)
	require.NoError(t, err)

	assert.Equal(t, "Request Response", config.GetString("sampler.communication_style"))
	assert.Equal(t, "10162", config.GetString("sampler.destination_port"))
	assert.Equal(t, "500", config.GetString("sampler.timeout"))
	assert.Equal(t, "public", config.GetString("sampler.community"))
	assert.Equal(t, 8, config.GetInt("runner.workers"))

	var varbinds []map[string]string
	require.NoError(t, config.UnmarshalKey("sampler.varbinds", &varbinds))
	require.Len(t, varbinds, 1)
	assert.Equal(t, "42", varbinds[0]["value"])
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("TRAPSAMPLER_SAMPLER_COMMUNITY", "private")
	config := Mock(t)

	assert.Equal(t, "private", config.GetString("sampler.community"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sampler:\n  community: lab\n"), 0o600))

	config := Mock(t)
	require.NoError(t, Load(config, path))
	assert.Equal(t, "lab", config.GetString("sampler.community"))
	assert.Equal(t, path, config.ConfigFileUsed())

	assert.NoError(t, Load(config, ""))
	assert.Error(t, Load(config, filepath.Join(dir, "missing.yaml")))
}

func TestSetupLogger(t *testing.T) {
	assert.NoError(t, SetupLogger("debug", ""))
	assert.Error(t, SetupLogger("loud", ""))
}

func TestBuildLoggerConfig(t *testing.T) {
	cfg := buildLoggerConfig("WARN", "/tmp/trapsampler.log")
	assert.Contains(t, cfg, `minlevel="warn"`)
	assert.Contains(t, cfg, `filename="/tmp/trapsampler.log"`)
	assert.NotContains(t, buildLoggerConfig("info", ""), "rollingfile")
}
