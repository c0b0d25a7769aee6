// Package classify splits raw input tokens into numeric and single-letter buckets.
package classify

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Result holds the typed buckets derived from one token sequence.
type Result struct {
	Numbers   []float64
	Alphabets []string
	// HighestLowercase is the lexicographically greatest lowercase letter, or nil when none exist.
	HighestLowercase *string
}

// decimalPattern accepts plain decimal literals with an optional sign and exponent.
// Hex floats, underscores, Inf and NaN are rejected even though strconv would take them.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Classify assigns every token to at most one bucket. Tokens that are neither a finite
// decimal number nor exactly one ASCII letter are dropped silently.
func Classify(tokens []any) Result {
	res := Result{Numbers: []float64{}, Alphabets: []string{}}
	var highest string
	for _, tok := range tokens {
		if x, ok := ParseNumber(tok); ok {
			res.Numbers = append(res.Numbers, x)
			continue
		}
		if s, ok := AsAlphabet(tok); ok {
			res.Alphabets = append(res.Alphabets, s)
			if s[0] >= 'a' && s[0] <= 'z' && s > highest {
				highest = s
			}
		}
	}
	if highest != "" {
		res.HighestLowercase = &highest
	}
	return res
}

// ParseNumber reports whether tok is numeric and returns its value.
func ParseNumber(tok any) (float64, bool) {
	switch v := tok.(type) {
	case float64:
		return v, finite(v)
	case float32:
		return float64(v), finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case json.Number:
		return parseDecimal(v.String())
	case string:
		return parseDecimal(v)
	default:
		return 0, false
	}
}

// AsAlphabet reports whether tok is a string made of exactly one ASCII letter.
func AsAlphabet(tok any) (string, bool) {
	s, ok := tok.(string)
	if !ok || len(s) != 1 {
		return "", false
	}
	c := s[0]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return s, true
	}
	return "", false
}

func parseDecimal(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if !decimalPattern.MatchString(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// out of range literals like 1e400
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
