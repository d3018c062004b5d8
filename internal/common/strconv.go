package common

import (
	"strconv"
	"strings"
)

// AtoiInRange parses value and reports whether it is an integer within [lo, hi].
func AtoiInRange(value string, lo, hi int) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < lo || parsed > hi {
		return 0, false
	}
	return parsed, true
}
