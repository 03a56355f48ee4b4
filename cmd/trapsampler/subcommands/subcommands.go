// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package subcommands lists the subcommands of the trapsampler binary.
package subcommands

import (
	"github.com/jchmura/jmeter-snmp/cmd/trapsampler/command"
	cmdecho "github.com/jchmura/jmeter-snmp/cmd/trapsampler/subcommands/echo"
	cmdrun "github.com/jchmura/jmeter-snmp/cmd/trapsampler/subcommands/run"
	cmdversion "github.com/jchmura/jmeter-snmp/cmd/trapsampler/subcommands/version"
)

// TrapSamplerSubcommands returns SubcommandFactories for the subcommands
// supported with the current build flags.
func TrapSamplerSubcommands() []command.SubcommandFactory {
	return []command.SubcommandFactory{
		cmdrun.Commands,
		cmdecho.Commands,
		cmdversion.Commands,
	}
}
