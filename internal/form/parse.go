package form

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber coerces s to a finite float64. Anything that does not parse,
// overflows, or is NaN/Inf becomes 0.
func ParseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParsePerformance turns the delimiter-encoded history into a list:
// comma-separated if s has a comma, else space-separated if s has a space,
// else a single entry. The result is never nil.
func ParsePerformance(s string) []string {
	switch {
	case strings.Contains(s, ","):
		return splitNonEmpty(s, ",", true)
	case strings.Contains(s, " "):
		return splitNonEmpty(s, " ", false)
	case s == "":
		return []string{}
	default:
		return []string{s}
	}
}

func splitNonEmpty(s, sep string, trim bool) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if trim {
			part = strings.TrimSpace(part)
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
