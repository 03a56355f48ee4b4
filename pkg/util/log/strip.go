// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Replacer structure to store regex matching and replacement functions
type Replacer struct {
	Regex *regexp.Regexp
	Hints []string // If any of these hints do not exist in the line, then we know the regex wont match either
	Repl  []byte
}

var singleLineReplacers []Replacer

func init() {
	// URI Generic Syntax
	// https://tools.ietf.org/html/rfc3986
	uriPasswordReplacer := Replacer{
		Regex: regexp.MustCompile(`([A-Za-z][A-Za-z0-9+-.]+\:\/\/|\b)([^\:\s]+)\:([^\s]+)\@`),
		Hints: []string{"@"},
		Repl:  []byte(`$1$2:********@`),
	}
	passwordReplacer := Replacer{
		Regex: matchYAMLKeyPart(`(pass(word)?|pwd)`),
		Hints: []string{"pass", "pwd"},
		Repl:  []byte(`$1 ********`),
	}
	snmpYAMLReplacer := Replacer{
		Regex: matchYAMLKey(`(community_string|community|authKey|privKey)`),
		Hints: []string{"community", "authKey", "privKey"},
		Repl:  []byte(`$1 ********`),
	}
	// gosnmp prints its parameters as Go structs, e.g. "Community:public"
	// or "community=public".
	snmpInlineReplacer := Replacer{
		Regex: regexp.MustCompile(`(?i)\b(community(?:_string)?\s*[=:]\s*)"?[^\s",}]+"?`),
		Hints: []string{"ommunity"},
		Repl:  []byte(`$1********`),
	}
	singleLineReplacers = []Replacer{uriPasswordReplacer, passwordReplacer, snmpYAMLReplacer, snmpInlineReplacer}
}

func matchYAMLKeyPart(part string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^(\s*(\w|_)*%s(\w|_)*\s*:).+`, part))
}

func matchYAMLKey(key string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^(\s*%s\s*:).+`, key))
}

// AddStrippedKeys allows configuration keys cleaned up
func AddStrippedKeys(strippedKeys []string) {
	if len(strippedKeys) > 0 {
		configReplacer := Replacer{
			Regex: matchYAMLKey(fmt.Sprintf("(%s)", strings.Join(strippedKeys, "|"))),
			Hints: strippedKeys,
			Repl:  []byte(`$1 ********`),
		}
		singleLineReplacers = append(singleLineReplacers, configReplacer)
	}
}

// CredentialsCleanerBytes scrubs credentials from slice of bytes
func CredentialsCleanerBytes(data []byte) ([]byte, error) {
	return credentialsCleaner(bytes.NewReader(data))
}

func credentialsCleaner(r io.Reader) ([]byte, error) {
	var cleaned []byte

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		b := scrubCredentials(scanner.Bytes(), singleLineReplacers)
		if !first {
			cleaned = append(cleaned, '\n')
		}
		cleaned = append(cleaned, b...)
		first = false
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// scrubCredentials obfuscate sensitive information based on Replacer Regex
func scrubCredentials(data []byte, replacers []Replacer) []byte {
	for _, repl := range replacers {
		containsHint := false
		for _, hint := range repl.Hints {
			if strings.Contains(string(data), hint) {
				containsHint = true
				break
			}
		}
		if len(repl.Hints) == 0 || containsHint {
			data = repl.Regex.ReplaceAll(data, repl.Repl)
		}
	}
	return data
}
