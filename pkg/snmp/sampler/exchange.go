// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cihub/seelog"
	"github.com/gosnmp/gosnmp"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/traps"
	"github.com/jchmura/jmeter-snmp/pkg/snmp/varbind"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// TrapSender sends one notification. *traps.Sender implements it.
type TrapSender interface {
	SendTrap(trap gosnmp.SnmpTrap) (*gosnmp.SnmpPacket, error)
}

// Correlator registers waiters for correlated replies.
// *traps.CorrelationListener implements it.
type Correlator interface {
	Register(key string) (*traps.Waiter, error)
}

// Exchange is one send, and in request/response style one wait for the
// reply carrying the same correlation key.
type Exchange struct {
	Style          CommunicationStyle
	Fields         []varbind.FieldDescriptor
	CorrelationOID string
	Timeout        time.Duration

	Sender     TrapSender
	Correlator Correlator
	Clock      clock.Clock
}

// Execute runs the exchange. Failures are reported in the result, never
// retried.
func (e *Exchange) Execute(ctx context.Context) *Result {
	clk := e.Clock
	if clk == nil {
		clk = clock.New()
	}

	result := &Result{Label: label(e.Style.String()), Start: clk.Now()}
	defer func() {
		result.Elapsed = clk.Since(result.Start)
		observe(e.Style, result)
	}()

	notification, err := varbind.Build(e.Fields)
	if err != nil {
		return result.fail(err)
	}

	if log.ShouldLog(seelog.TraceLvl) {
		log.Tracef("%s sending %s", result.Label, notification)
	}

	if e.Style != RequestResponse {
		if _, err := e.Sender.SendTrap(notification.Trap()); err != nil {
			return result.fail(err)
		}
		result.Success = true
		return result
	}

	key, err := notification.Lookup(e.CorrelationOID)
	if err != nil {
		return result.fail(err)
	}
	result.Key = key
	if e.Correlator == nil {
		return result.fail(snmperr.NewConfigurationError(nil, "no correlation listener to wait for %q", key))
	}

	// The timer must exist before the send so that it covers a fast reply.
	timer := clk.Timer(e.Timeout)
	defer timer.Stop()

	waiter, err := e.Correlator.Register(key)
	if err != nil {
		return result.fail(err)
	}
	defer waiter.Cancel()

	if _, err := e.Sender.SendTrap(notification.Trap()); err != nil {
		return result.fail(err)
	}

	select {
	case <-waiter.Done():
		result.Success = true
	case <-timer.C:
		result.fail(snmperr.NewTimeoutError("no reply with correlation key %q within %d ms", key, e.Timeout.Milliseconds()))
	case <-ctx.Done():
		result.fail(snmperr.NewInterruptedError(ctx.Err(), "wait for correlation key %q interrupted", key))
	}
	return result
}

func (r *Result) fail(err error) *Result {
	r.Success = false
	r.Err = err
	r.Message = err.Error()
	log.Debugf("%s failed: %v", r.Label, err)
	return r
}
