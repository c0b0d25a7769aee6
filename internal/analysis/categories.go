package analysis

import (
	"math"

	"github.com/KaramelBytes/tokenscope/internal/numtheory"
)

// CategoryCounts tallies simple single-pass predicates over the number set.
type CategoryCounts struct {
	Even             int `json:"even"`
	Odd              int `json:"odd"`
	Positive         int `json:"positive"`
	Negative         int `json:"negative"`
	Zero             int `json:"zero"`
	PerfectSquares   int `json:"perfect_squares"`
	FibonacciNumbers int `json:"fibonacci_numbers"`
	PrimeNumbers     int `json:"prime_numbers"`
	CompositeNumbers int `json:"composite_numbers"`
}

// Categorize counts category membership. Parity, squares, Fibonacci membership and
// compositeness only apply to integers. It returns nil for an empty set.
func Categorize(numbers []float64) *CategoryCounts {
	if len(numbers) == 0 {
		return nil
	}
	cc := &CategoryCounts{}
	for _, n := range numbers {
		switch {
		case n > 0:
			cc.Positive++
		case n < 0:
			cc.Negative++
		default:
			cc.Zero++
		}
		if !isInteger(n) {
			continue
		}
		if math.Mod(n, 2) == 0 {
			cc.Even++
		} else {
			cc.Odd++
		}
		if IsPerfectSquare(n) {
			cc.PerfectSquares++
		}
		if IsFibonacci(n) {
			cc.FibonacciNumbers++
		}
		if numtheory.IsPrime(n) {
			cc.PrimeNumbers++
		} else if n > 1 {
			cc.CompositeNumbers++
		}
	}
	return cc
}

// IsPerfectSquare reports whether n is a non-negative integer with an integer square root.
func IsPerfectSquare(n float64) bool {
	if n < 0 || !isInteger(n) || n > math.MaxUint64/2 {
		return false
	}
	v := uint64(n)
	r := isqrt(v)
	return r*r == v
}

// IsFibonacci uses the identity: n is Fibonacci iff 5n²+4 or 5n²-4 is a perfect square.
// Only non-negative integers up to the input bound are considered.
func IsFibonacci(n float64) bool {
	if n < 0 || !isInteger(n) || n > 1e9 {
		return false
	}
	v := uint64(n)
	base := 5 * v * v
	if isSquare(base + 4) {
		return true
	}
	return base >= 4 && isSquare(base-4)
}

func isSquare(v uint64) bool {
	r := isqrt(v)
	return r*r == v
}

// isqrt returns floor(sqrt(v)) exactly; the float estimate is corrected for rounding.
func isqrt(v uint64) uint64 {
	r := uint64(math.Sqrt(float64(v)))
	for r > 0 && r*r > v {
		r--
	}
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}

func isInteger(n float64) bool {
	return n == math.Trunc(n) && !math.IsInf(n, 0)
}
