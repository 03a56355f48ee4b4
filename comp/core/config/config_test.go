// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/jchmura/jmeter-snmp/pkg/util/fxutil"
)

func TestRealConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sampler:\n  destination_port: 10162\nrunner:\n  workers: 2\n"), 0666))

	t.Setenv("TRAPSAMPLER_SAMPLER_COMMUNITY", "private")

	config := fxutil.Test[Component](t,
		fx.Supply(Params{ConfFilePath: path, Overrides: map[string]interface{}{"runner.workers": 8}}),
		Module(),
	)

	assert.Equal(t, "10162", config.GetString("sampler.destination_port"))
	assert.Equal(t, "private", config.GetString("sampler.community"))
	assert.Equal(t, 8, config.GetInt("runner.workers"))
	assert.Equal(t, path, config.ConfigFileUsed())
}

func TestMissingPlanFile(t *testing.T) {
	_, err := newConfig(Params{ConfFilePath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to load plan file")
}

func TestMockConfig(t *testing.T) {
	config := fxutil.Test[Component](t,
		fx.Supply(Params{Overrides: map[string]interface{}{"sampler.timeout": "250"}}),
		MockModule(),
	)

	assert.Equal(t, "250", config.GetString("sampler.timeout"))
	assert.Equal(t, "Request Only", config.GetString("sampler.communication_style"))
}
