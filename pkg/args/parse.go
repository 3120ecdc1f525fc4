/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package args

import (
	"fmt"
	"strings"
	"unicode"
)

// SplitList splits list flag input on commas and whitespace, dropping empty
// elements. Order is preserved: "a,b c" yields [a b c].
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return out
}

// ParseKeyValues parses "key=value" entries, each of which may itself hold
// several comma separated pairs ("web=1,db=0"). A key without "=" is an error.
// A repeated key keeps the last value.
func ParseKeyValues(values []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, v := range values {
		for _, pair := range strings.Split(v, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			key, value, ok := strings.Cut(pair, "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return nil, fmt.Errorf("invalid key=value pair: %q", pair)
			}
			out[key] = strings.TrimSpace(value)
		}
	}
	return out, nil
}
