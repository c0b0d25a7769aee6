package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/time/rate"
)

const (
	defaultLabelRate  = 2.0 // requests per second
	defaultLabelBurst = 3
	labelMaxTokens    = 8
)

// ErrEmptyLabel is returned when the runtime answers with no usable word.
var ErrEmptyLabel = errors.New("runtime returned no label")

// labelInstructions maps a label kind to the question asked about the summary.
var labelInstructions = map[string]string{
	"analysis":       "Describe the overall character of this data in one word.",
	"sentiment":      "Give the sentiment of this data in one word: positive, negative or neutral.",
	"recommendation": "Recommend one action for this data in one word.",
}

// Labeler turns a Runtime into a one-word labeling service with outbound rate limiting.
type Labeler struct {
	rt      Runtime
	model   string
	limiter *rate.Limiter
}

// NewLabeler wraps rt. rps <= 0 or burst <= 0 fall back to conservative defaults.
func NewLabeler(rt Runtime, model string, rps float64, burst int) *Labeler {
	if rps <= 0 {
		rps = defaultLabelRate
	}
	if burst <= 0 {
		burst = defaultLabelBurst
	}
	return &Labeler{
		rt:      rt,
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Label asks the runtime for a single lowercase word describing summary.
func (l *Labeler) Label(ctx context.Context, kind, summary string) (string, error) {
	instruction, ok := labelInstructions[kind]
	if !ok {
		return "", fmt.Errorf("unknown label kind %q", kind)
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}
	resp, err := l.rt.Generate(ctx, GenerateRequest{
		Model: l.model,
		Messages: []Message{
			{Role: "system", Content: "You label numeric datasets. Answer with exactly one word and nothing else."},
			{Role: "user", Content: instruction + "\n\n" + summary},
		},
		MaxTokens:   labelMaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("generate %s label (%s): %w", kind, Reason(err), err)
	}
	word := FirstWord(resp.Text())
	if word == "" {
		return "", ErrEmptyLabel
	}
	return word, nil
}

// FirstWord returns the first whitespace-separated word of s, lowercased, with
// surrounding punctuation removed.
func FirstWord(s string) string {
	fields := strings.Fields(s)
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if w != "" {
			return strings.ToLower(w)
		}
	}
	return ""
}
