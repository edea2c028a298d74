package answer

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a numeric result: integers without decimals,
// everything else to a fixed 2-decimal precision. The decimal separator
// stays a dot here; locale conversion happens at presentation time only.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Localize converts a formatted number to the German decimal comma.
// Non-numeric text passes through untouched, so it is safe to apply to
// any expected answer at presentation time. Never feed the result back
// into a calculation.
func Localize(s string) string {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return s
	}
	return strings.Replace(s, ".", ",", 1)
}
