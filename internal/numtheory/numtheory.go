// Package numtheory computes exact number-theoretic properties of a number set:
// primality, Fibonacci prefixes, and LCM/HCF folds.
package numtheory

import (
	"math"
	"math/big"
	"sort"
)

// IsPrime reports whether n is a prime integer. Non-integers and values outside the
// int64 range are never prime.
func IsPrime(n float64) bool {
	if n < 2 || n != math.Trunc(n) || n >= maxInt64 {
		return false
	}
	if n == 2 {
		return true
	}
	v := int64(n)
	if v%2 == 0 {
		return false
	}
	limit := int64(math.Sqrt(n))
	for i := int64(3); i <= limit; i += 2 {
		if v%i == 0 {
			return false
		}
	}
	return true
}

// Primes returns the prime members of numbers in ascending order. Duplicates are kept.
func Primes(numbers []float64) []float64 {
	out := []float64{}
	for _, n := range numbers {
		if IsPrime(n) {
			out = append(out, n)
		}
	}
	sort.Float64s(out)
	return out
}

// maxInt64 is 2^63 as a float64; values at or beyond it do not fit in an int64.
const maxInt64 = float64(math.MaxInt64)

// FibonacciUpTo returns the Fibonacci sequence 0, 1, 1, 2, ... with every term <= max.
// The sequence stops at the last term representable as an int64.
func FibonacciUpTo(max float64) []int64 {
	if max < 0 {
		return []int64{}
	}
	if max < 1 {
		return []int64{0}
	}
	seq := []int64{0, 1}
	for {
		next := seq[len(seq)-1] + seq[len(seq)-2]
		if next < seq[len(seq)-1] || float64(next) > max {
			break
		}
		seq = append(seq, next)
	}
	return seq
}

// GCD is Euclid's algorithm over absolute values. GCD(0, 0) is 0.
func GCD(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns 0 when either operand is 0, otherwise |a*b| / GCD(a, b).
func LCM(a, b int64) *big.Int {
	if a == 0 || b == 0 {
		return new(big.Int)
	}
	return lcmBig(big.NewInt(abs(a)), big.NewInt(abs(b)))
}

// LCMAll folds LCM across the absolute, integer-truncated, non-zero members of numbers
// that fit in an int64.
// It returns nil for empty input and 0 when every member truncates to zero.
func LCMAll(numbers []float64) *big.Int {
	if len(numbers) == 0 {
		return nil
	}
	vals := truncatedNonZero(numbers)
	if len(vals) == 0 {
		return new(big.Int)
	}
	acc := big.NewInt(vals[0])
	for _, v := range vals[1:] {
		acc = lcmBig(acc, big.NewInt(v))
	}
	return acc
}

// HCFAll folds GCD across the absolute, integer-truncated, non-zero members of numbers.
// Unlike LCMAll it returns nil when nothing survives the zero filter.
func HCFAll(numbers []float64) *int64 {
	vals := truncatedNonZero(numbers)
	if len(vals) == 0 {
		return nil
	}
	acc := vals[0]
	for _, v := range vals[1:] {
		acc = GCD(acc, v)
	}
	return &acc
}

func lcmBig(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Mul(a, b)
	return out.Quo(out, g)
}

// truncatedNonZero drops zeros and values whose magnitude does not fit in an int64.
func truncatedNonZero(numbers []float64) []int64 {
	out := make([]int64, 0, len(numbers))
	for _, n := range numbers {
		t := math.Trunc(n)
		if math.IsNaN(t) || math.Abs(t) >= maxInt64 {
			continue
		}
		v := abs(int64(t))
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
