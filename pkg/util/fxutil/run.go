// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package fxutil

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
)

const appTimeout = 30 * time.Second

// Run runs an fx.App using the supplied options until it receives a shutdown
// signal, returning any errors.
//
// This differs from fx.App#Run in that it returns errors instead of exiting
// the process.
func Run(opts ...fx.Option) error {
	if fxAppTestOverride != nil {
		return fxAppTestOverride(func() {}, opts)
	}

	app := fx.New(appOptions(opts)...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return errors.Join(err, stopApp(app))
	}

	<-app.Done()

	return stopApp(app)
}

// OneShot starts an fx.App, calls fn with its dependencies, then stops the
// app. The error returned by fn, if any, is returned.
func OneShot(fn interface{}, opts ...fx.Option) error {
	if fxAppTestOverride != nil {
		return fxAppTestOverride(fn, opts)
	}

	delayed := newDelayedFxInvocation(fn)
	opts = append(opts, delayed.option())

	app := fx.New(appOptions(opts)...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return errors.Join(err, stopApp(app))
	}

	err := delayed.call()

	return errors.Join(err, stopApp(app))
}

func appOptions(opts []fx.Option) []fx.Option {
	// Prepend so that individual calls can override the timeouts.
	return append([]fx.Option{
		fx.StartTimeout(appTimeout),
		fx.StopTimeout(appTimeout),
		fx.NopLogger,
	}, opts...)
}

func stopApp(app *fx.App) error {
	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}
