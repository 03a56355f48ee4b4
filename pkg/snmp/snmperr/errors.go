// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package snmperr classifies the errors of a trap exchange. Every error is
// local to one exchange and is reported as that exchange's result.
package snmperr

import (
	"errors"
	"fmt"
)

// Class is the kind of failure
type Class int

const (
	// Configuration covers malformed field text, addresses, ports and timeouts.
	Configuration Class = iota
	// Transport covers send and bind failures.
	Transport
	// Correlation covers a missing correlation field, outbound or inbound, and
	// a correlation key already waited on.
	Correlation
	// Timeout is reported when no matching reply arrived in time.
	Timeout
)

// String returns the string representation of Class
func (c Class) String() string {
	switch c {
	case Configuration:
		return "configuration"
	case Transport:
		return "transport"
	case Correlation:
		return "correlation"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a classified error
type Error struct {
	Class   Class
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same class with no message, so that
// errors.Is(err, &Error{Class: Timeout}) checks the class only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Class == e.Class && t.Message == "" && t.Cause == nil
}

func newError(class Class, cause error, format string, args ...interface{}) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NewConfigurationError returns a configuration error
func NewConfigurationError(cause error, format string, args ...interface{}) error {
	return newError(Configuration, cause, format, args...)
}

// NewTransportError returns a transport error
func NewTransportError(cause error, format string, args ...interface{}) error {
	return newError(Transport, cause, format, args...)
}

// NewCorrelationError returns a correlation error
func NewCorrelationError(cause error, format string, args ...interface{}) error {
	return newError(Correlation, cause, format, args...)
}

// NewTimeoutError returns a timeout error
func NewTimeoutError(format string, args ...interface{}) error {
	return newError(Timeout, nil, format, args...)
}

// NewInterruptedError returns a timeout error for a wait ended early by
// cause, usually the context error.
func NewInterruptedError(cause error, format string, args ...interface{}) error {
	return newError(Timeout, cause, format, args...)
}

// ClassOf returns the class of the first classified error in err's chain.
func ClassOf(err error) (Class, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Class, true
	}
	return 0, false
}

func is(err error, class Class) bool {
	c, ok := ClassOf(err)
	return ok && c == class
}

// IsConfiguration returns whether err is a configuration error
func IsConfiguration(err error) bool { return is(err, Configuration) }

// IsTransport returns whether err is a transport error
func IsTransport(err error) bool { return is(err, Transport) }

// IsCorrelation returns whether err is a correlation error
func IsCorrelation(err error) bool { return is(err, Correlation) }

// IsTimeout returns whether err is a timeout error
func IsTimeout(err error) bool { return is(err, Timeout) }
