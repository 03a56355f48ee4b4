// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package fxutil

import (
	"reflect"

	"go.uber.org/fx"
)

// delayedFxInvocation captures the arguments of a function at fx.Invoke time
// and calls it later, once the app is started.
type delayedFxInvocation struct {
	fn   interface{}
	args []reflect.Value
}

func newDelayedFxInvocation(fn interface{}) *delayedFxInvocation {
	ftype := reflect.TypeOf(fn)
	if ftype == nil || ftype.Kind() != reflect.Func {
		panic("delayedFxInvocation requires a function as its first argument")
	}
	return &delayedFxInvocation{fn: fn}
}

// option returns an fx.Invoke that records the arguments of fn.
func (i *delayedFxInvocation) option() fx.Option {
	ftype := reflect.TypeOf(i.fn)
	in := make([]reflect.Type, ftype.NumIn())
	for n := range in {
		in[n] = ftype.In(n)
	}
	captureType := reflect.FuncOf(in, nil, false)
	capture := reflect.MakeFunc(captureType, func(args []reflect.Value) []reflect.Value {
		i.args = args
		return nil
	})
	return fx.Invoke(capture.Interface())
}

// call calls fn with the recorded arguments.
func (i *delayedFxInvocation) call() error {
	res := reflect.ValueOf(i.fn).Call(i.args)
	if len(res) > 0 {
		if err, ok := res[0].Interface().(error); ok {
			return err
		}
	}
	return nil
}
