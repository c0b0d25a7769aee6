package numtheory

import (
	"math"
	"math/big"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// Summary is the math block of an insight report.
type Summary struct {
	Sum     float64  `json:"sum"`
	Product *float64 `json:"product"` // nil when the product overflows float64
	Max     float64  `json:"max"`
	Min     float64  `json:"min"`
	Average float64  `json:"average"`

	Fibonacci []int64   `json:"fibonacci"`
	Primes    []float64 `json:"primes"`
	LCM       *big.Int  `json:"lcm"`
	HCF       *int64    `json:"hcf"`
}

// Compute builds the math block for numbers. It returns nil for an empty set.
//
// Fibonacci, primes, LCM and HCF have no data dependency on each other and are
// computed concurrently; the result is identical to a sequential run.
func Compute(numbers []float64) *Summary {
	if len(numbers) == 0 {
		return nil
	}
	data := stats.Float64Data(numbers)
	sum, _ := stats.Sum(data)
	mx, _ := stats.Max(data)
	mn, _ := stats.Min(data)
	avg, _ := stats.Mean(data)

	s := &Summary{Sum: sum, Max: mx, Min: mn, Average: avg}
	product := 1.0
	for _, n := range numbers {
		product *= n
	}
	if !math.IsInf(product, 0) && !math.IsNaN(product) {
		s.Product = &product
	}

	var g errgroup.Group
	g.Go(func() error {
		s.Fibonacci = FibonacciUpTo(mx)
		return nil
	})
	g.Go(func() error {
		s.Primes = Primes(numbers)
		return nil
	})
	g.Go(func() error {
		s.LCM = LCMAll(numbers)
		return nil
	})
	g.Go(func() error {
		s.HCF = HCFAll(numbers)
		return nil
	})
	_ = g.Wait()
	return s
}
