// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package version implements 'trapsampler version'.
package version

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jchmura/jmeter-snmp/cmd/trapsampler/command"
	"github.com/jchmura/jmeter-snmp/pkg/version"
)

// Commands returns a slice of subcommands for the 'trapsampler' command.
func Commands(_ *command.GlobalParams) []*cobra.Command {
	var noColor bool
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version info",
		Long:  ``,
		Run: func(cmd *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true
			}
			commit := version.Commit
			if commit == "" {
				commit = "unknown"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trap sampler %s - Commit: %s - Go version: %s\n",
				color.CyanString(version.SamplerVersion),
				color.GreenString(commit),
				color.RedString(runtime.Version()),
			)
		},
	}
	versionCmd.Flags().BoolVarP(&noColor, "no-color", "n", false, "disable color output")
	return []*cobra.Command{versionCmd}
}
