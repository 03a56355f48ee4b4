// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	pkgconfig "github.com/jchmura/jmeter-snmp/pkg/config"
)

func newConfig(params Params) (Component, error) {
	cfg := pkgconfig.NewConfig("trapsampler", "TRAPSAMPLER", strings.NewReplacer(".", "_"))
	pkgconfig.InitConfig(cfg)

	if err := pkgconfig.Load(cfg, params.ConfFilePath); err != nil {
		// special-case permission-denied with a clearer error message
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("cannot access the plan file (%w); try running the command as its owner", err)
		}
		return nil, fmt.Errorf("unable to load plan file %q: %w", params.ConfFilePath, err)
	}
	applyOverrides(cfg, params)

	if params.SetupLogger {
		if err := pkgconfig.SetupLogger(cfg.GetString("log_level"), cfg.GetString("log_file")); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newMock(params Params) Component {
	cfg := pkgconfig.NewConfig("trapsampler", "TRAPSAMPLER", strings.NewReplacer(".", "_"))
	pkgconfig.InitConfig(cfg)
	applyOverrides(cfg, params)
	return cfg
}

func applyOverrides(cfg pkgconfig.Config, params Params) {
	for key, value := range params.Overrides {
		cfg.Set(key, value)
	}
}
