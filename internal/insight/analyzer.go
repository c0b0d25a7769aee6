// Package insight composes classification, number theory, statistics and pattern
// detection into one report, optionally annotated by an external labeling service.
package insight

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/tokenscope/internal/analysis"
	"github.com/KaramelBytes/tokenscope/internal/attachment"
	"github.com/KaramelBytes/tokenscope/internal/classify"
	"github.com/KaramelBytes/tokenscope/internal/metrics"
	"github.com/KaramelBytes/tokenscope/internal/numtheory"
	"github.com/KaramelBytes/tokenscope/internal/patterns"
)

// Label kinds requested from the labeler.
const (
	KindAnalysis       = "analysis"
	KindSentiment      = "sentiment"
	KindRecommendation = "recommendation"
)

// Fallback labels used when the labeler is absent or fails.
const (
	FallbackAnalysis       = "unavailable"
	FallbackAnalysisError  = "error"
	FallbackSentiment      = "neutral"
	FallbackRecommendation = "optimize"
)

const defaultLabelTimeout = 10 * time.Second

// Labeler produces a single-word label of the given kind for a data summary.
type Labeler interface {
	Label(ctx context.Context, kind, summary string) (string, error)
}

// Report is the full insight bundle for one token array. It is not mutated after Analyze returns.
type Report struct {
	Numbers          []float64 `json:"numbers"`
	Alphabets        []string  `json:"alphabets"`
	HighestLowercase *string   `json:"highest_lowercase_alphabet"`

	Math           *numtheory.Summary       `json:"math"`
	Stats          *analysis.Stats          `json:"stats"`
	CategoryCounts *analysis.CategoryCounts `json:"category_counts"`

	Patterns  patterns.Patterns  `json:"patterns"`
	Anomalies *patterns.Outliers `json:"anomalies"`
	Clusters  *patterns.Clusters `json:"clusters"`

	Insights        Insights         `json:"insights"`
	ConfidenceScore float64          `json:"confidence_score"`
	File            *attachment.Info `json:"file,omitempty"`
}

// Insights carries the advisory labels. Confidence is 0 when no label came from the labeler.
type Insights struct {
	Analysis       string  `json:"analysis"`
	Sentiment      string  `json:"sentiment"`
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

// Analyzer runs the pipeline. The zero value is not usable; use NewAnalyzer.
type Analyzer struct {
	labeler Labeler
	logger  *zap.Logger
	timeout time.Duration
	source  string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLabeler attaches an external labeler. A nil labeler means fallbacks only.
func WithLabeler(l Labeler) Option { return func(a *Analyzer) { a.labeler = l } }

// WithLogger sets the logger used for labeler warnings.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLabelTimeout bounds all label lookups of one analysis.
func WithLabelTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithSource sets the metrics source label (e.g. "api", "cli").
func WithSource(s string) Option { return func(a *Analyzer) { a.source = s } }

// NewAnalyzer builds an Analyzer with a no-op logger and no labeler by default.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:  zap.NewNop(),
		timeout: defaultLabelTimeout,
		source:  "api",
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze classifies tokens and derives every report block. It never fails: empty buckets
// produce nil blocks and labeler problems produce fallback labels.
func (a *Analyzer) Analyze(ctx context.Context, tokens []any, file *attachment.Info) *Report {
	start := time.Now()
	res := classify.Classify(tokens)
	r := &Report{
		Numbers:          res.Numbers,
		Alphabets:        res.Alphabets,
		HighestLowercase: res.HighestLowercase,
		File:             file,
	}

	var g errgroup.Group
	g.Go(func() error {
		r.Math = numtheory.Compute(res.Numbers)
		return nil
	})
	g.Go(func() error {
		r.Stats = analysis.Summarize(res.Numbers)
		r.CategoryCounts = analysis.Categorize(res.Numbers)
		return nil
	})
	g.Go(func() error {
		r.Patterns = patterns.Detect(res.Numbers, res.Alphabets)
		r.Anomalies = patterns.DetectOutliers(res.Numbers)
		r.Clusters = patterns.DetectClusters(res.Numbers)
		return nil
	})
	_ = g.Wait()

	r.ConfidenceScore = Confidence(res.Numbers, res.Alphabets, file)
	r.Insights = a.label(ctx, r)

	metrics.AnalysesTotal.WithLabelValues(a.source).Inc()
	metrics.InputTokens.Observe(float64(len(tokens)))
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	return r
}

// label fans out the three lookups under one deadline and substitutes fallbacks per kind.
func (a *Analyzer) label(ctx context.Context, r *Report) Insights {
	out := Insights{
		Analysis:       FallbackAnalysis,
		Sentiment:      FallbackSentiment,
		Recommendation: FallbackRecommendation,
	}
	if a.labeler == nil {
		for _, kind := range []string{KindAnalysis, KindSentiment, KindRecommendation} {
			metrics.LabelsTotal.WithLabelValues(kind, "fallback").Inc()
		}
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	summary := Summary(r)

	kinds := []string{KindAnalysis, KindSentiment, KindRecommendation}
	labels := make([]string, len(kinds))
	errs := make([]error, len(kinds))
	var g errgroup.Group
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			labels[i], errs[i] = a.labeler.Label(ctx, kind, summary)
			return nil
		})
	}
	_ = g.Wait()

	var ok int
	for i, kind := range kinds {
		if errs[i] != nil || labels[i] == "" {
			a.logger.Warn("labeler unavailable, using fallback",
				zap.String("kind", kind),
				zap.Error(errs[i]),
			)
			metrics.LabelsTotal.WithLabelValues(kind, "error").Inc()
			if kind == KindAnalysis {
				out.Analysis = FallbackAnalysisError
			}
			continue
		}
		metrics.LabelsTotal.WithLabelValues(kind, "ok").Inc()
		ok++
		switch kind {
		case KindAnalysis:
			out.Analysis = labels[i]
		case KindSentiment:
			out.Sentiment = labels[i]
		case KindRecommendation:
			out.Recommendation = labels[i]
		}
	}
	if ok > 0 {
		out.Confidence = r.ConfidenceScore
	}
	return out
}

// Confidence scores data completeness: 0.5 baseline, +0.2 for more than ten classified
// elements, +0.1 when both buckets are populated, +0.1 when every element is unique and
// +0.1 for a valid attachment. The result is rounded to two decimals and capped at 1.
func Confidence(numbers []float64, alphabets []string, file *attachment.Info) float64 {
	score := 0.5
	total := len(numbers) + len(alphabets)
	if total > 10 {
		score += 0.2
	}
	if len(numbers) > 0 && len(alphabets) > 0 {
		score += 0.1
	}
	if total > 0 && allUnique(numbers, alphabets) {
		score += 0.1
	}
	if file != nil && file.Valid {
		score += 0.1
	}
	return math.Min(1, math.Round(score*100)/100)
}

func allUnique(numbers []float64, alphabets []string) bool {
	seenN := make(map[float64]struct{}, len(numbers))
	for _, n := range numbers {
		if _, dup := seenN[n]; dup {
			return false
		}
		seenN[n] = struct{}{}
	}
	seenA := make(map[string]struct{}, len(alphabets))
	for _, s := range alphabets {
		if _, dup := seenA[s]; dup {
			return false
		}
		seenA[s] = struct{}{}
	}
	return true
}

// Summary renders the compact digest sent to the labeler.
func Summary(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "numbers=%d alphabets=%d", len(r.Numbers), len(r.Alphabets))
	if r.Math != nil {
		fmt.Fprintf(&b, " sum=%.6g min=%.6g max=%.6g primes=%d", r.Math.Sum, r.Math.Min, r.Math.Max, len(r.Math.Primes))
	}
	if r.Stats != nil {
		fmt.Fprintf(&b, " mean=%.4g median=%.4g std_dev=%.4g skewness=%.3f", r.Stats.Mean, r.Stats.Median, r.Stats.StdDev, r.Stats.Skewness)
	}
	for _, p := range r.Patterns.Numerical {
		fmt.Fprintf(&b, " %s(%.2f)", p.Type, p.Confidence)
	}
	for _, p := range r.Patterns.Alphabetical {
		fmt.Fprintf(&b, " %s(%.2f)", p.Type, p.Confidence)
	}
	if r.Anomalies != nil {
		fmt.Fprintf(&b, " anomalies=%d", len(r.Anomalies.Anomalies))
	}
	if r.Clusters != nil {
		fmt.Fprintf(&b, " clusters=%d", r.Clusters.PotentialClusters)
	}
	return b.String()
}
