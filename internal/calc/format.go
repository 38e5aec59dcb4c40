package calc

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errorDisplay
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// FormatFixed rounds to places decimals and renders the result with exactly
// that many digits after the point.
func FormatFixed(v float64, places int) string {
	return strconv.FormatFloat(Round(v, places), 'f', places, 64)
}

// parseDisplay reads the leading number of a display string, so "1.2.3"
// reads as 1.2. The second result is false when there is no leading number,
// as for "Error" or an empty display.
func parseDisplay(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits, dot := 0, false
	for ; end < len(s); end++ {
		c := s[end]
		if c == '.' && !dot {
			dot = true
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
