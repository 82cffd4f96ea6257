// Copyright (c) 2026 Revora. All rights reserved.

// Package query parses loosely-typed URL query parameter values.
package query

import (
	"strconv"
	"strings"
)

// Int parses a single query value into an int.
// It returns 0 and false when the value is empty or malformed.
func Int(val string) (int, bool) {
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
