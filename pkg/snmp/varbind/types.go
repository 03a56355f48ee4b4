// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package varbind

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
)

// Type is the semantic type of a field. The set is closed.
type Type int

// The supported field types
const (
	Counter32 Type = iota
	Counter64
	Gauge32
	Integer32
	IPAddress
	Null
	OctetString
	OID
	Opaque
	TimeTicks
)

var typeNames = [...]string{
	Counter32:   "Counter32",
	Counter64:   "Counter64",
	Gauge32:     "Gauge32",
	Integer32:   "Integer32",
	IPAddress:   "IpAddress",
	Null:        "Null",
	OctetString: "OctetString",
	OID:         "OID",
	Opaque:      "Opaque",
	TimeTicks:   "TimeTicks",
}

// AllTypes returns every supported type in declaration order.
func AllTypes() []Type {
	types := make([]Type, len(typeNames))
	for i := range typeNames {
		types[i] = Type(i)
	}
	return types
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType returns the type named s, compared case-insensitively.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Type(i), nil
		}
	}
	return 0, snmperr.NewConfigurationError(nil, "unsupported field type %q (possible values are %s)", s, strings.Join(typeNames[:], ", "))
}

// Asn1BER returns the BER tag the type is encoded with.
func (t Type) Asn1BER() gosnmp.Asn1BER {
	switch t {
	case Counter32:
		return gosnmp.Counter32
	case Counter64:
		return gosnmp.Counter64
	case Gauge32:
		return gosnmp.Gauge32
	case Integer32:
		return gosnmp.Integer
	case IPAddress:
		return gosnmp.IPAddress
	case Null:
		return gosnmp.Null
	case OctetString:
		return gosnmp.OctetString
	case OID:
		return gosnmp.ObjectIdentifier
	case Opaque:
		return gosnmp.Opaque
	case TimeTicks:
		return gosnmp.TimeTicks
	}
	panic(fmt.Sprintf("unknown field type %d", int(t)))
}

// Encode converts text into the value gosnmp expects for the type.
func Encode(t Type, text string) (interface{}, error) {
	switch t {
	case Counter32, Gauge32, TimeTicks:
		return encodeUint32(t, text)
	case Counter64:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, encodingError(t, text, err)
		}
		return v, nil
	case Integer32:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, encodingError(t, text, err)
		}
		return int(v), nil
	case IPAddress:
		ip := net.ParseIP(text)
		if ip == nil || ip.To4() == nil || strings.Contains(text, ":") {
			return nil, encodingError(t, text, fmt.Errorf("not a dotted-decimal IPv4 address"))
		}
		return ip.To4().String(), nil
	case Null:
		return nil, nil
	case OctetString, Opaque:
		return []byte(text), nil
	case OID:
		if err := ValidateOID(text); err != nil {
			return nil, encodingError(t, text, err)
		}
		return NormalizeOID(text), nil
	}
	return nil, snmperr.NewConfigurationError(nil, "unsupported field type %s", t)
}

func encodeUint32(t Type, text string) (uint32, error) {
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, encodingError(t, text, err)
	}
	return uint32(v), nil
}

func encodingError(t Type, text string, cause error) error {
	return snmperr.NewConfigurationError(cause, "cannot encode %q as %s", text, t)
}
