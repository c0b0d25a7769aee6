package server

import (
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/KaramelBytes/tokenscope/internal/classify"
)

// ValidationError is a client input problem reported as HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Limits bounds the accepted token array.
type Limits struct {
	MaxItems     int
	MaxStringLen int
	MaxAbsNumber float64
}

// DefaultLimits are the bounds the analysis core is sized for.
func DefaultLimits() Limits {
	return Limits{MaxItems: 1000, MaxStringLen: 100, MaxAbsNumber: 999999999}
}

// Validate checks that data is an array of bounded strings and finite bounded numbers
// and returns it as a token slice. Numeric strings are held to the number bound.
func (l Limits) Validate(data any) ([]any, error) {
	if data == nil {
		return nil, &ValidationError{Field: "data", Reason: "is required"}
	}
	arr, ok := data.([]any)
	if !ok {
		return nil, &ValidationError{Field: "data", Reason: "must be an array"}
	}
	if len(arr) > l.MaxItems {
		return nil, &ValidationError{Field: "data", Reason: fmt.Sprintf("must contain at most %d items", l.MaxItems)}
	}
	for i, v := range arr {
		field := fmt.Sprintf("data[%d]", i)
		switch tok := v.(type) {
		case string:
			if utf8.RuneCountInString(tok) > l.MaxStringLen {
				return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("string longer than %d characters", l.MaxStringLen)}
			}
			if f, ok := classify.ParseNumber(tok); ok && !l.numberOK(f) {
				return nil, l.numberError(field)
			}
		case float64:
			if !l.numberOK(tok) {
				return nil, l.numberError(field)
			}
		case json.Number:
			f, err := tok.Float64()
			if err != nil || !l.numberOK(f) {
				return nil, l.numberError(field)
			}
		default:
			return nil, &ValidationError{Field: field, Reason: "must be a string or a number"}
		}
	}
	return arr, nil
}

func (l Limits) numberOK(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) <= l.MaxAbsNumber
}

func (l Limits) numberError(field string) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("number must be finite with magnitude at most %.0f", l.MaxAbsNumber)}
}
