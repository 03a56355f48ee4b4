// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package varbind

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldDescriptor describes one field of an outbound notification.
type FieldDescriptor struct {
	OID   string
	Value string
	Type  Type
}

func (d FieldDescriptor) String() string {
	return fmt.Sprintf("%s = %s: %s", d.OID, d.Type, d.Value)
}

// NormalizeOID strips the leading dot gosnmp puts on received names.
func NormalizeOID(oid string) string {
	return strings.TrimPrefix(strings.TrimSpace(oid), ".")
}

// ValidateOID checks that oid is a dotted-numeric object identifier.
func ValidateOID(oid string) error {
	normalized := NormalizeOID(oid)
	if normalized == "" {
		return errors.New("empty object identifier")
	}
	arcs := strings.Split(normalized, ".")
	if len(arcs) < 2 {
		return fmt.Errorf("object identifier %q needs at least two arcs", oid)
	}
	for _, arc := range arcs {
		if _, err := strconv.ParseUint(arc, 10, 32); err != nil {
			return fmt.Errorf("invalid arc %q in object identifier %q", arc, oid)
		}
	}
	return nil
}
