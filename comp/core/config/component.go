// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config implements a component to handle the sampler configuration.
// It loads the plan file given in Params and sets up the logger from it.
package config

import (
	"go.uber.org/fx"

	pkgconfig "github.com/jchmura/jmeter-snmp/pkg/config"
)

// Component is the component type.
type Component interface {
	pkgconfig.Config
}

// Params defines the parameters for the config component.
type Params struct {
	// ConfFilePath is the path of the YAML plan file, empty for defaults and
	// environment only.
	ConfFilePath string
	// Overrides are set on top of the file, typically from command line flags.
	Overrides map[string]interface{}
	// SetupLogger configures the global logger from log_level and log_file.
	SetupLogger bool
}

// NewParams returns Params loading path.
func NewParams(path string) Params {
	return Params{ConfFilePath: path, SetupLogger: true}
}

// Module defines the fx options for this component.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(newConfig),
	)
}

// MockModule provides the defaults, with Params overrides, without logger
// setup.
func MockModule() fx.Option {
	return fx.Module("config",
		fx.Provide(newMock),
	)
}
