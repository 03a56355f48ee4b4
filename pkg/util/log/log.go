// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package log is the logging facade used by the trap sampler. It forwards to a
// seelog logger set up by SetupLogger and scrubs credentials from every line.
package log

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cihub/seelog"
)

var (
	logger *samplerLogger

	// Lines logged before SetupLogger are kept here and replayed once the
	// logger exists. Configuration loading logs before the logger is ready.
	logsBuffer           = []func(){}
	bufferLogsBeforeInit = true
	bufferMutex          sync.Mutex
	defaultStackDepth    = 3
)

// samplerLogger wraps the seelog logger with a level and a lock
type samplerLogger struct {
	inner seelog.LoggerInterface
	level seelog.LogLevel
	l     sync.RWMutex
}

// SetupLogger installs l as the inner logger at the given level and flushes
// the lines buffered so far.
func SetupLogger(l seelog.LoggerInterface, level string) {
	logger = &samplerLogger{
		inner: l,
	}

	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		lvl = seelog.InfoLvl
	}
	logger.level = lvl

	// The exported functions below add two frames between the caller and
	// seelog.
	logger.inner.SetAdditionalStackDepth(defaultStackDepth) //nolint:errcheck

	bufferMutex.Lock()
	bufferLogsBeforeInit = false
	defer bufferMutex.Unlock()
	for _, logLine := range logsBuffer {
		logLine()
	}
	logsBuffer = []func(){}
}

func addLogToBuffer(logHandle func()) {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()

	logsBuffer = append(logsBuffer, logHandle)
}

func (sw *samplerLogger) changeLogLevel(level string) error {
	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		return errors.New("bad log level")
	}

	sw.l.Lock()
	defer sw.l.Unlock()
	sw.level = lvl
	return nil
}

func (sw *samplerLogger) shouldLog(level seelog.LogLevel) bool {
	sw.l.RLock()
	defer sw.l.RUnlock()

	return level >= sw.level
}

func (sw *samplerLogger) getLogLevel() seelog.LogLevel {
	sw.l.RLock()
	defer sw.l.RUnlock()

	return sw.level
}

func (sw *samplerLogger) write(level seelog.LogLevel, s string) error {
	sw.l.Lock()
	defer sw.l.Unlock()

	scrubbed := scrubMessage(s)
	switch level {
	case seelog.TraceLvl:
		sw.inner.Trace(scrubbed)
	case seelog.DebugLvl:
		sw.inner.Debug(scrubbed)
	case seelog.InfoLvl:
		sw.inner.Info(scrubbed)
	case seelog.WarnLvl:
		return sw.inner.Warn(scrubbed)
	case seelog.ErrorLvl:
		return sw.inner.Error(scrubbed)
	case seelog.CriticalLvl:
		return sw.inner.Critical(scrubbed)
	}
	return nil
}

func buildLogEntry(v ...interface{}) string {
	var fmtBuffer bytes.Buffer

	for i := 0; i < len(v)-1; i++ {
		fmtBuffer.WriteString("%v ")
	}
	fmtBuffer.WriteString("%v")

	return fmt.Sprintf(fmtBuffer.String(), v...)
}

func scrubMessage(message string) string {
	msgScrubbed, err := CredentialsCleanerBytes([]byte(message))
	if err == nil {
		return string(msgScrubbed)
	}
	return "[REDACTED] - failure to clean the message"
}

func ready() bool {
	return logger != nil && logger.inner != nil
}

func logAt(level seelog.LogLevel, bufferFunc func(), msg func() string, fallbackStderr bool) error {
	if ready() {
		if !logger.shouldLog(level) {
			return errors.New(scrubMessage(msg()))
		}
		s := msg()
		if err := logger.write(level, s); err != nil {
			return err
		}
		return errors.New(scrubMessage(s))
	}

	bufferMutex.Lock()
	buffering := bufferLogsBeforeInit
	bufferMutex.Unlock()
	if buffering {
		addLogToBuffer(bufferFunc)
	}

	err := errors.New(scrubMessage(msg()))
	if fallbackStderr {
		fmt.Fprintf(os.Stderr, "%s: %s\n", level.String(), err.Error())
	}
	return err
}

// Trace logs at the trace level
func Trace(v ...interface{}) {
	logAt(seelog.TraceLvl, func() { Trace(v...) }, func() string { return buildLogEntry(v...) }, false) //nolint:errcheck
}

// Tracef logs with format at the trace level
func Tracef(format string, params ...interface{}) {
	logAt(seelog.TraceLvl, func() { Tracef(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, false) //nolint:errcheck
}

// Debug logs at the debug level
func Debug(v ...interface{}) {
	logAt(seelog.DebugLvl, func() { Debug(v...) }, func() string { return buildLogEntry(v...) }, false) //nolint:errcheck
}

// Debugf logs with format at the debug level
func Debugf(format string, params ...interface{}) {
	logAt(seelog.DebugLvl, func() { Debugf(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, false) //nolint:errcheck
}

// Info logs at the info level
func Info(v ...interface{}) {
	logAt(seelog.InfoLvl, func() { Info(v...) }, func() string { return buildLogEntry(v...) }, false) //nolint:errcheck
}

// Infof logs with format at the info level
func Infof(format string, params ...interface{}) {
	logAt(seelog.InfoLvl, func() { Infof(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, false) //nolint:errcheck
}

// Warn logs at the warn level and returns an error containing the formated log message
func Warn(v ...interface{}) error {
	return logAt(seelog.WarnLvl, func() { Warn(v...) }, func() string { return buildLogEntry(v...) }, false)
}

// Warnf logs with format at the warn level and returns an error containing the formated log message
func Warnf(format string, params ...interface{}) error {
	return logAt(seelog.WarnLvl, func() { Warnf(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, false)
}

// Error logs at the error level and returns an error containing the formated log message
func Error(v ...interface{}) error {
	return logAt(seelog.ErrorLvl, func() { Error(v...) }, func() string { return buildLogEntry(v...) }, true)
}

// Errorf logs with format at the error level and returns an error containing the formated log message
func Errorf(format string, params ...interface{}) error {
	return logAt(seelog.ErrorLvl, func() { Errorf(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, true)
}

// Criticalf logs with format at the critical level and returns an error containing the formated log message
func Criticalf(format string, params ...interface{}) error {
	return logAt(seelog.CriticalLvl, func() { Criticalf(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, true)
}

// Flush flushes the underlying inner log
func Flush() {
	if ready() {
		logger.inner.Flush()
	}
}

// GetLogLevel returns a seelog native representation of the current
// log level
func GetLogLevel() (seelog.LogLevel, error) {
	if ready() {
		return logger.getLogLevel(), nil
	}

	return seelog.InfoLvl, errors.New("cannot get loglevel: logger not initialized")
}

// ChangeLogLevel changes the current log level, valid levels are trace, debug,
// info, warn, error, critical and off.
func ChangeLogLevel(level string) error {
	if ready() {
		return logger.changeLogLevel(level)
	}

	return errors.New("cannot change loglevel: logger not initialized")
}

// ShouldLog returns whether a given log level should be logged by the default
// logger. Callers use it to skip formatting costly arguments.
func ShouldLog(level seelog.LogLevel) bool {
	if ready() {
		return logger.shouldLog(level)
	}
	return false
}
