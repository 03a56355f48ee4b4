// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
)

const labelPrefix = "SNMP Trap - "

// Result is the outcome of one exchange.
type Result struct {
	Label   string
	Success bool
	Start   time.Time
	Elapsed time.Duration
	// Key is the correlation key, empty for request only exchanges.
	Key     string
	Message string
	Err     error
}

func label(style string) string {
	return labelPrefix + style
}

// interruptedClass is reported for waits cut short by the run being stopped,
// apart from the replies that really timed out.
const interruptedClass = "interrupted"

// ErrorClass returns the class of the failure, "" on success.
func (r *Result) ErrorClass() string {
	if r.Success {
		return ""
	}
	if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
		return interruptedClass
	}
	if class, ok := snmperr.ClassOf(r.Err); ok {
		return class.String()
	}
	return "other"
}

func (r *Result) String() string {
	if r.Success {
		return fmt.Sprintf("%s: OK in %s", r.Label, r.Elapsed)
	}
	return fmt.Sprintf("%s: FAILED in %s: %s", r.Label, r.Elapsed, r.Message)
}

var errNotStarted = snmperr.NewConfigurationError(nil, "sampler was not started")
