// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"fmt"
	"strings"

	"github.com/jchmura/jmeter-snmp/pkg/snmp/snmperr"
)

// CommunicationStyle selects whether an exchange waits for a reply.
type CommunicationStyle int

const (
	// RequestOnly sends the notification and succeeds once it is sent.
	RequestOnly CommunicationStyle = iota
	// RequestResponse sends the notification and waits for a correlated reply.
	RequestResponse
)

// String returns the display name of the style
func (s CommunicationStyle) String() string {
	switch s {
	case RequestOnly:
		return "Request Only"
	case RequestResponse:
		return "Request Response"
	default:
		return fmt.Sprintf("CommunicationStyle(%d)", int(s))
	}
}

// ParseStyle accepts the display name of a style, ignoring case, spaces,
// dashes and underscores.
func ParseStyle(s string) (CommunicationStyle, error) {
	normalized := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
	switch normalized {
	case "requestonly":
		return RequestOnly, nil
	case "requestresponse":
		return RequestResponse, nil
	}
	return 0, snmperr.NewConfigurationError(nil, "unknown communication style %q (possible values are %q and %q)", s, RequestOnly, RequestResponse)
}
