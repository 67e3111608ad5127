package termimage

import (
	"math"
	"strconv"
	"strings"
)

// absint coerces a submitted value to a non-negative integer the lenient way
// admin forms expect: leading whitespace is skipped, an optional sign and the
// leading run of digits are read, anything after them is ignored, and the
// magnitude is returned. Input without leading digits yields zero.
//
// ok is false when the digits do not fit an image id; the caller must then
// leave stored state alone rather than read the value as zero.
func absint(raw string) (n uint, ok bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, true
	}

	v, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil || v > math.MaxUint32 {
		return 0, false
	}
	return uint(v), true
}
