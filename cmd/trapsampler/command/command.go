// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package command implements the top-level `trapsampler` binary, including its
// subcommands.
package command

import (
	"github.com/spf13/cobra"
)

// GlobalParams contains the values of sampler-global Cobra flags.
//
// A pointer to this type is passed to SubcommandFactory's, but its contents
// are not valid until Cobra calls the subcommand's Run or RunE function.
type GlobalParams struct {
	// ConfFilePath holds the path to the plan file.
	ConfFilePath string
}

// SubcommandFactory is a callable that will return a slice of subcommands.
type SubcommandFactory func(globalParams *GlobalParams) []*cobra.Command

// MakeCommand makes the top-level Cobra command for this app.
func MakeCommand(subcommandFactories []SubcommandFactory) *cobra.Command {
	globalParams := GlobalParams{}

	cmd := &cobra.Command{
		Use:   "trapsampler [command]",
		Short: "Measure SNMP trap round trips.",
		Long: `
The trap sampler sends SNMPv2c notifications to a device and, in request/response
mode, waits for the device to answer with a notification carrying the same
correlation field. It reports how long the replies took to come back.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&globalParams.ConfFilePath, "cfgpath", "c", "", "path to the YAML plan file")

	for _, sf := range subcommandFactories {
		for _, subcmd := range sf(&globalParams) {
			cmd.AddCommand(subcmd)
		}
	}

	return cmd
}
