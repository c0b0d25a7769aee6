package insight

import (
	"fmt"
	"strconv"
	"strings"
)

// Markdown renders the report as bracketed plain-text sections suitable for terminals and prompts.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[TOKEN SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Numbers (%d): %s\n", len(r.Numbers), joinFloats(r.Numbers)))
	b.WriteString(fmt.Sprintf("Alphabets (%d): %s\n", len(r.Alphabets), strings.Join(r.Alphabets, ", ")))
	if r.HighestLowercase != nil {
		b.WriteString(fmt.Sprintf("Highest lowercase: %s\n", *r.HighestLowercase))
	}
	b.WriteString("\n")

	if m := r.Math; m != nil {
		b.WriteString("[MATH]\n")
		b.WriteString(fmt.Sprintf("- sum %.6g, min %.6g, max %.6g, average %.6g\n", m.Sum, m.Min, m.Max, m.Average))
		if m.Product != nil {
			b.WriteString(fmt.Sprintf("- product %.6g\n", *m.Product))
		} else {
			b.WriteString("- product: overflow\n")
		}
		b.WriteString(fmt.Sprintf("- primes: %s\n", orNone(joinFloats(m.Primes))))
		b.WriteString(fmt.Sprintf("- fibonacci up to max: %s\n", orNone(joinInts(m.Fibonacci))))
		if m.LCM != nil {
			b.WriteString(fmt.Sprintf("- lcm %s\n", m.LCM.String()))
		}
		if m.HCF != nil {
			b.WriteString(fmt.Sprintf("- hcf %d\n", *m.HCF))
		}
		b.WriteString("\n")
	}

	if s := r.Stats; s != nil {
		b.WriteString("[STATISTICS]\n")
		b.WriteString(fmt.Sprintf("- mean %.4g, median %.4g, range %.4g, std %.4g\n", s.Mean, s.Median, s.Range, s.StdDev))
		b.WriteString(fmt.Sprintf("- skewness %.3f, excess kurtosis %.3f\n", s.Skewness, s.Kurtosis))
		b.WriteString(fmt.Sprintf("- mode: %s\n", orNone(joinFloats(s.Mode))))
		b.WriteString("\n")
	}

	if c := r.CategoryCounts; c != nil {
		b.WriteString("[CATEGORY COUNTS]\n")
		b.WriteString(fmt.Sprintf("- even %d, odd %d, positive %d, negative %d, zero %d\n", c.Even, c.Odd, c.Positive, c.Negative, c.Zero))
		b.WriteString(fmt.Sprintf("- perfect squares %d, fibonacci %d, prime %d, composite %d\n", c.PerfectSquares, c.FibonacciNumbers, c.PrimeNumbers, c.CompositeNumbers))
		b.WriteString("\n")
	}

	b.WriteString("[PATTERNS]\n")
	for _, p := range r.Patterns.Numerical {
		b.WriteString(fmt.Sprintf("- numerical: %s (confidence %.2f)\n", p.Type, p.Confidence))
	}
	for _, p := range r.Patterns.Alphabetical {
		b.WriteString(fmt.Sprintf("- alphabetical: %s (confidence %.2f)\n", p.Type, p.Confidence))
	}
	sa := r.Patterns.SequenceAnalysis
	b.WriteString(fmt.Sprintf("- arithmetic=%t geometric=%t alphabetical=%t repetition=%t\n", sa.IsArithmetic, sa.IsGeometric, sa.IsAlphabetical, sa.HasRepetition))
	if sa.HasRepetition {
		b.WriteString(fmt.Sprintf("- repeating unit: %q\n", sa.RepeatingPattern))
	}
	b.WriteString("\n")

	if o := r.Anomalies; o != nil {
		b.WriteString("[ANOMALIES]\n")
		b.WriteString(fmt.Sprintf("- |x-mean| > %.4g (mean %.4g, std %.4g)\n", o.Threshold, o.Mean, o.StdDev))
		b.WriteString(fmt.Sprintf("- flagged: %s\n", orNone(joinFloats(o.Anomalies))))
		b.WriteString("\n")
	}

	if c := r.Clusters; c != nil {
		b.WriteString("[CLUSTERS]\n")
		b.WriteString(fmt.Sprintf("- potential clusters %d (large gaps %d, average gap %.4g)\n", c.PotentialClusters, c.LargeGaps, c.AverageGap))
		b.WriteString("\n")
	}

	b.WriteString("[INSIGHTS]\n")
	b.WriteString(fmt.Sprintf("- analysis: %s\n", r.Insights.Analysis))
	b.WriteString(fmt.Sprintf("- sentiment: %s\n", r.Insights.Sentiment))
	b.WriteString(fmt.Sprintf("- recommendation: %s\n", r.Insights.Recommendation))
	b.WriteString(fmt.Sprintf("- confidence score: %.2f\n", r.ConfidenceScore))

	if f := r.File; f != nil {
		b.WriteString("\n[FILE]\n")
		if f.Valid {
			b.WriteString(fmt.Sprintf("- %s, %.2f KB\n", f.MIMEType, f.SizeKB))
		} else {
			b.WriteString("- invalid attachment\n")
		}
	}
	return b.String()
}

func joinFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func joinInts(xs []int64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatInt(x, 10)
	}
	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
