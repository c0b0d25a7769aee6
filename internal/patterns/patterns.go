package patterns

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Pattern type identifiers.
const (
	AscendingTrend       = "ascending_trend"
	DescendingTrend      = "descending_trend"
	ArithmeticSequence   = "arithmetic_sequence"
	GeometricSequence    = "geometric_sequence"
	EvenDominant         = "even_dominant"
	OddDominant          = "odd_dominant"
	UppercaseDominant    = "uppercase_dominant"
	LowercaseDominant    = "lowercase_dominant"
	VowelDominant        = "vowel_dominant"
	ConsonantDominant    = "consonant_dominant"
	AlphabeticalSequence = "alphabetical_sequence"
)

// NoPattern is reported when no repeating unit rebuilds the token string.
const NoPattern = "no pattern found"

const (
	dominanceConfidence = 0.8
	geometricTolerance  = 1e-4
)

// Record is one detected pattern. Confidence is a local heuristic in [0,1].
type Record struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// SequenceAnalysis summarizes structural checks over both buckets.
type SequenceAnalysis struct {
	IsArithmetic     bool   `json:"is_arithmetic"`
	IsGeometric      bool   `json:"is_geometric"`
	IsAlphabetical   bool   `json:"is_alphabetical"`
	HasRepetition    bool   `json:"has_repetition"`
	RepeatingPattern string `json:"repeating_pattern"`
}

// Patterns is the pattern block of an insight report.
type Patterns struct {
	Numerical        []Record         `json:"numerical"`
	Alphabetical     []Record         `json:"alphabetical"`
	SequenceAnalysis SequenceAnalysis `json:"sequence_analysis"`
}

// Detect runs the numeric and alphabetic heuristics. Inputs are not modified.
func Detect(numbers []float64, alphabets []string) Patterns {
	p := Patterns{
		Numerical:    []Record{},
		Alphabetical: []Record{},
	}

	if r, ok := Trend(numbers); ok {
		p.Numerical = append(p.Numerical, r)
	}
	p.SequenceAnalysis.IsArithmetic = IsArithmetic(numbers)
	if p.SequenceAnalysis.IsArithmetic {
		p.Numerical = append(p.Numerical, Record{Type: ArithmeticSequence, Confidence: 1})
	}
	p.SequenceAnalysis.IsGeometric = IsGeometric(numbers)
	if p.SequenceAnalysis.IsGeometric {
		p.Numerical = append(p.Numerical, Record{Type: GeometricSequence, Confidence: 1})
	}
	if r, ok := Parity(numbers); ok {
		p.Numerical = append(p.Numerical, r)
	}

	if r, ok := Case(alphabets); ok {
		p.Alphabetical = append(p.Alphabetical, r)
	}
	if r, ok := Vowels(alphabets); ok {
		p.Alphabetical = append(p.Alphabetical, r)
	}
	p.SequenceAnalysis.IsAlphabetical = IsContiguous(alphabets)
	if p.SequenceAnalysis.IsAlphabetical {
		p.Alphabetical = append(p.Alphabetical, Record{Type: AlphabeticalSequence, Confidence: 1})
	}

	p.SequenceAnalysis.RepeatingPattern, p.SequenceAnalysis.HasRepetition = RepeatingPattern(numbers, alphabets)
	return p
}

// Trend compares strictly ascending and strictly descending adjacent pairs in input order.
// A direction wins when its count exceeds 1.5 times the other; confidence is the share of
// all adjacent pairs that support it.
func Trend(numbers []float64) (Record, bool) {
	if len(numbers) < 2 {
		return Record{}, false
	}
	var asc, desc int
	for i := 1; i < len(numbers); i++ {
		switch {
		case numbers[i] > numbers[i-1]:
			asc++
		case numbers[i] < numbers[i-1]:
			desc++
		}
	}
	pairs := float64(len(numbers) - 1)
	switch {
	case asc > 0 && float64(asc) > 1.5*float64(desc):
		return Record{Type: AscendingTrend, Confidence: float64(asc) / pairs}, true
	case desc > 0 && float64(desc) > 1.5*float64(asc):
		return Record{Type: DescendingTrend, Confidence: float64(desc) / pairs}, true
	}
	return Record{}, false
}

// IsArithmetic reports whether the sorted set has exactly equal consecutive differences.
func IsArithmetic(numbers []float64) bool {
	if len(numbers) < 3 {
		return false
	}
	s := sortedCopy(numbers)
	d := s[1] - s[0]
	for i := 2; i < len(s); i++ {
		if s[i]-s[i-1] != d {
			return false
		}
	}
	return true
}

// IsGeometric reports whether the sorted set has consecutive ratios equal within 1e-4.
// Any zero makes the ratio undefined and the result false.
func IsGeometric(numbers []float64) bool {
	if len(numbers) < 3 {
		return false
	}
	for _, n := range numbers {
		if n == 0 {
			return false
		}
	}
	s := sortedCopy(numbers)
	r := s[1] / s[0]
	for i := 2; i < len(s); i++ {
		if math.Abs(s[i]/s[i-1]-r) > geometricTolerance {
			return false
		}
	}
	return true
}

// Parity reports even or odd dominance among integer values.
func Parity(numbers []float64) (Record, bool) {
	var even, odd int
	for _, n := range numbers {
		if n != math.Trunc(n) {
			continue
		}
		if math.Mod(n, 2) == 0 {
			even++
		} else {
			odd++
		}
	}
	return dominance(even, odd, EvenDominant, OddDominant)
}

// Case reports uppercase or lowercase dominance among letters.
func Case(alphabets []string) (Record, bool) {
	var upper, lower int
	for _, a := range alphabets {
		if a == strings.ToUpper(a) {
			upper++
		} else {
			lower++
		}
	}
	return dominance(upper, lower, UppercaseDominant, LowercaseDominant)
}

func dominance(a, b int, aType, bType string) (Record, bool) {
	switch {
	case a > 2*b:
		return Record{Type: aType, Confidence: dominanceConfidence}, true
	case b > 2*a:
		return Record{Type: bType, Confidence: dominanceConfidence}, true
	}
	return Record{}, false
}

// Vowels reports vowel dominance (more vowels than consonants) or consonant dominance
// (more than twice as many consonants). Confidence is the dominant class's share.
func Vowels(alphabets []string) (Record, bool) {
	if len(alphabets) == 0 {
		return Record{}, false
	}
	var vowels int
	for _, a := range alphabets {
		if strings.ContainsAny(strings.ToLower(a), "aeiou") {
			vowels++
		}
	}
	consonants := len(alphabets) - vowels
	total := float64(len(alphabets))
	switch {
	case vowels > consonants:
		return Record{Type: VowelDominant, Confidence: float64(vowels) / total}, true
	case consonants > 2*vowels:
		return Record{Type: ConsonantDominant, Confidence: float64(consonants) / total}, true
	}
	return Record{}, false
}

// IsContiguous reports whether the letters, sorted by code point, step by exactly one.
func IsContiguous(alphabets []string) bool {
	if len(alphabets) < 2 {
		return false
	}
	runes := make([]rune, 0, len(alphabets))
	for _, a := range alphabets {
		runes = append(runes, []rune(a)[0])
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	for i := 1; i < len(runes); i++ {
		if runes[i]-runes[i-1] != 1 {
			return false
		}
	}
	return true
}

// RepeatingPattern concatenates the numbers (shortest decimal form) and then the letters,
// and returns the shortest prefix whose repetition rebuilds the whole string.
func RepeatingPattern(numbers []float64, alphabets []string) (string, bool) {
	var b strings.Builder
	for _, n := range numbers {
		b.WriteString(strconv.FormatFloat(n, 'f', -1, 64))
	}
	for _, a := range alphabets {
		b.WriteString(a)
	}
	s := b.String()
	for l := 1; l <= len(s)/2; l++ {
		if len(s)%l != 0 {
			continue
		}
		if strings.Repeat(s[:l], len(s)/l) == s {
			return s[:l], true
		}
	}
	return NoPattern, false
}

func sortedCopy(numbers []float64) []float64 {
	s := append([]float64(nil), numbers...)
	sort.Float64s(s)
	return s
}
