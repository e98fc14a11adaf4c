package geo

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseNumber converts a dataset token into a float. Strings may contain
// whitespace as digit grouping and a comma as decimal separator, so
// "2 600 100,5" yields 2600100.5. Anything unparseable yields NaN.
func ParseNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return parseNumericString(n)
	default:
		return math.NaN()
	}
}

func parseNumericString(s string) float64 {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return math.NaN()
	}
	s = strings.Replace(s, ",", ".", 1)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
