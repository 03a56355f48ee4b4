// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2020-present Datadog, Inc.

package traps

import (
	"crypto/subtle"
	"net"
	"strconv"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/varbind"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

const defaultStopTimeout = 5 * time.Second

// ListenerConfig contains configuration for the correlation listener.
// YAML field tags provided for test marshalling purposes.
type ListenerConfig struct {
	Address        string `mapstructure:"listening_address" yaml:"listening_address"`
	Port           uint16 `mapstructure:"listening_port" yaml:"listening_port"`
	CorrelationOID string `mapstructure:"correlation_oid" yaml:"correlation_oid"`
	// Community, when set, is required on every received trap.
	Community   string        `mapstructure:"community" yaml:"community"`
	StopTimeout time.Duration `mapstructure:"stop_timeout" yaml:"stop_timeout"`
}

// Addr returns the host:port address to listen on.
func (c ListenerConfig) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(int(c.Port)))
}

func (c ListenerConfig) sameAs(other ListenerConfig) bool {
	return c.Addr() == other.Addr() &&
		varbind.NormalizeOID(c.CorrelationOID) == varbind.NormalizeOID(other.CorrelationOID) &&
		c.Community == other.Community
}

// communityMatches compares in constant time. An empty expected community
// accepts any.
func communityMatches(received, expected string) bool {
	if expected == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}

func (c ListenerConfig) stopTimeout() time.Duration {
	if c.StopTimeout <= 0 {
		return defaultStopTimeout
	}
	return c.StopTimeout
}

// trapLogger is a GoSNMP logger interface implementation.
type trapLogger struct{}

func (x *trapLogger) Print(v ...interface{}) {
	log.Debug(v...)
}

func (x *trapLogger) Printf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

// BuildParams returns the GoSNMP params the trap listener decodes packets with.
func (c ListenerConfig) BuildParams() *gosnmp.GoSNMP {
	return &gosnmp.GoSNMP{
		Port:      c.Port,
		Transport: "udp",
		Version:   gosnmp.Version2c,
		Community: c.Community,
		Logger:    gosnmp.NewLogger(&trapLogger{}),
	}
}
