package util

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloat parses a finite decimal. Empty, malformed, NaN and infinite
// inputs all report ok=false.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
