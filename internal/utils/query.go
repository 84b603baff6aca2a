package utils

import (
	"net/url"
	"strconv"
)

// QueryInt parses an integer query parameter. Missing or malformed values give
// def; anything outside [lo, hi] is clamped.
func QueryInt(q url.Values, key string, def, lo, hi int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
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
