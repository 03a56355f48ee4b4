// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package version defines the version of the trap sampler
package version

// SamplerVersion contains the version of the sampler.
// It is populated at build time using -ldflags "-X".
var SamplerVersion string

// Commit is populated with the short commit hash from which the sampler was built
var Commit string

var samplerVersionDefault = "0.1.0"

func init() {
	if SamplerVersion == "" {
		SamplerVersion = samplerVersionDefault
	}
}
