// Package utils holds small parsing helpers shared by the HTTP handlers.
package utils

import (
	"strconv"
	"strings"
)

// IntInRange parses a query value and clamps it to [lo, hi]. Blank or
// malformed input yields def, which is returned as given.
//
//	utils.IntInRange("600", 1, 1, 500) // 500
//	utils.IntInRange("abc", 1, 1, 500) // 1
func IntInRange(s string, def, lo, hi int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
