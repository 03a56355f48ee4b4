// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package main implements the trapsampler binary.
package main

import (
	"os"

	"github.com/jchmura/jmeter-snmp/cmd/trapsampler/command"
	"github.com/jchmura/jmeter-snmp/cmd/trapsampler/subcommands"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

func main() {
	defer log.Flush()

	if err := command.MakeCommand(subcommands.TrapSamplerSubcommands()).Execute(); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}
