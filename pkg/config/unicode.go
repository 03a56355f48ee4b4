// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// unexpectedCodepoint is an invisible or control character found in a plan
// file. Pasted OIDs and community strings often carry one.
type unexpectedCodepoint struct {
	codepoint rune
	reason    string
	position  int
}

// findUnexpectedUnicode returns the invisible whitespace and control
// characters of input, with their byte offset.
func findUnexpectedUnicode(input string) []unexpectedCodepoint {
	var results []unexpectedCodepoint
	for position, r := range input {
		reason := ""
		switch {
		case r == utf8.RuneError:
			reason = "invalid unicode"
		case r == ' ' || r == '\r' || r == '\n' || r == '\t':
		case unicode.IsSpace(r):
			reason = "unsupported whitespace"
		case unicode.Is(unicode.Bidi_Control, r):
			reason = "bidirectional control character"
		case unicode.Is(unicode.C, r):
			reason = "control character"
		}
		if reason != "" {
			results = append(results, unexpectedCodepoint{codepoint: r, reason: reason, position: position})
		}
	}
	return results
}

// warnUnexpectedUnicode logs a warning per unexpected character of the file
// at path. A file that cannot be read is left to the loader to report.
func warnUnexpectedUnicode(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, c := range findUnexpectedUnicode(string(content)) {
		log.Warnf("Plan file %s contains %s %U at byte %d", path, c.reason, c.codepoint, c.position)
	}
}
