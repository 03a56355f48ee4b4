// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package varbind turns field descriptors into the variable bindings of an
// SNMPv2 notification, and reads field values back out of received ones.
package varbind

import (
	"fmt"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
)

// Notification is an outbound SNMPv2 trap, fields kept in descriptor order.
type Notification struct {
	Variables []gosnmp.SnmpPDU
}

// PDUType is the fixed notification marker.
func (n *Notification) PDUType() gosnmp.PDUType {
	return gosnmp.SNMPv2Trap
}

// Trap returns a copy of the notification as a gosnmp trap.
func (n *Notification) Trap() gosnmp.SnmpTrap {
	variables := make([]gosnmp.SnmpPDU, len(n.Variables))
	copy(variables, n.Variables)
	return gosnmp.SnmpTrap{Variables: variables}
}

// Lookup returns the textual value of the field at oid.
func (n *Notification) Lookup(oid string) (string, error) {
	return Lookup(n.Variables, oid)
}

func (n *Notification) String() string {
	parts := make([]string, 0, len(n.Variables))
	for _, v := range n.Variables {
		value, _ := FormatValue(v)
		parts = append(parts, fmt.Sprintf("%s = %s", NormalizeOID(v.Name), value))
	}
	return fmt.Sprintf("%v[%s]", n.PDUType(), strings.Join(parts, "; "))
}

// Build encodes descriptors in order. It stops at the first descriptor that
// cannot be encoded and returns no notification.
func Build(descriptors []FieldDescriptor) (*Notification, error) {
	variables := make([]gosnmp.SnmpPDU, 0, len(descriptors))
	for i, d := range descriptors {
		if err := ValidateOID(d.OID); err != nil {
			return nil, snmperr.NewConfigurationError(err, "field %d", i)
		}
		value, err := Encode(d.Type, d.Value)
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, d.OID, err)
		}
		variables = append(variables, gosnmp.SnmpPDU{
			Name:  NormalizeOID(d.OID),
			Type:  d.Type.Asn1BER(),
			Value: value,
		})
	}
	return &Notification{Variables: variables}, nil
}

// Lookup returns the textual value of the first variable named oid. A missing
// variable is a correlation error, never an empty match.
func Lookup(variables []gosnmp.SnmpPDU, oid string) (string, error) {
	want := NormalizeOID(oid)
	for _, v := range variables {
		if NormalizeOID(v.Name) == want {
			return FormatValue(v)
		}
	}
	return "", snmperr.NewCorrelationError(nil, "no field %s in notification", want)
}

// FormatValue renders a variable the same way whether it was built locally or
// decoded from the wire, so that both sides produce the same correlation key.
func FormatValue(v gosnmp.SnmpPDU) (string, error) {
	switch v.Type {
	case gosnmp.OctetString, gosnmp.Opaque, gosnmp.IPAddress, gosnmp.ObjectIdentifier:
		switch value := v.Value.(type) {
		case []byte:
			return string(value), nil
		case string:
			if v.Type == gosnmp.ObjectIdentifier {
				return NormalizeOID(value), nil
			}
			return value, nil
		case nil:
			return "", nil
		default:
			return fmt.Sprintf("%v", value), nil
		}
	case gosnmp.Counter32, gosnmp.Counter64, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Integer, gosnmp.Uinteger32:
		return gosnmp.ToBigInt(v.Value).String(), nil
	case gosnmp.Null:
		return "", nil
	}
	if v.Value == nil {
		return "", fmt.Errorf("field %s has no value (type %s)", v.Name, v.Type)
	}
	return fmt.Sprintf("%v", v.Value), nil
}
