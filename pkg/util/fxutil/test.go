// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package fxutil

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// Test starts an app with opts and returns T populated from it. The app is
// stopped when the test ends.
func Test[T any](t testing.TB, opts ...fx.Option) T {
	var deps T
	app := fxtest.New(t, fx.Options(opts...), fx.Populate(&deps))
	app.RequireStart()
	t.Cleanup(func() {
		app.RequireStop()
	})
	return deps
}

// TestOneShotSubcommand runs root with commandline and checks that it calls
// OneShot with expectedFn. verifyFn is then invoked with the dependencies the
// command would have provided to expectedFn.
func TestOneShotSubcommand(t *testing.T, root *cobra.Command, commandline []string, expectedFn interface{}, verifyFn interface{}) {
	var called bool
	fxAppTestOverride = func(fn interface{}, opts []fx.Option) error {
		called = true
		require.Equal(t,
			reflect.ValueOf(expectedFn).Pointer(),
			reflect.ValueOf(fn).Pointer(),
			"command did not call the expected function")
		app := fxtest.New(t, fx.Options(opts...), fx.Invoke(verifyFn))
		app.RequireStart().RequireStop()
		return nil
	}
	defer func() { fxAppTestOverride = nil }()

	root.SetArgs(commandline)
	require.NoError(t, root.Execute())
	require.True(t, called, "command did not call OneShot")
}
