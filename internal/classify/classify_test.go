package classify

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBasic(t *testing.T) {
	res := Classify([]any{"1", "2", "a", "b", "3"})

	assert.Equal(t, []float64{1, 2, 3}, res.Numbers)
	assert.Equal(t, []string{"a", "b"}, res.Alphabets)
	require.NotNil(t, res.HighestLowercase)
	assert.Equal(t, "b", *res.HighestLowercase)
}

func TestClassifyDropsUnmatched(t *testing.T) {
	res := Classify([]any{"12a", "ab", "$", "", " ", "Z", "-4.5", " 7 ", true, nil, "0x10", "NaN", "Inf", "1_000"})

	assert.Equal(t, []float64{-4.5, 7}, res.Numbers)
	assert.Equal(t, []string{"Z"}, res.Alphabets)
	assert.Nil(t, res.HighestLowercase, "uppercase letters never count as highest lowercase")
}

func TestClassifyNativeNumbers(t *testing.T) {
	res := Classify([]any{float64(3), 4, int64(5), json.Number("6.25"), math.Inf(1), math.NaN()})

	assert.Equal(t, []float64{3, 4, 5, 6.25}, res.Numbers)
	assert.Empty(t, res.Alphabets)
}

func TestClassifyHighestLowercase(t *testing.T) {
	res := Classify([]any{"c", "Z", "x", "a", "x"})

	require.NotNil(t, res.HighestLowercase)
	assert.Equal(t, "x", *res.HighestLowercase)
	assert.Equal(t, []string{"c", "Z", "x", "a", "x"}, res.Alphabets, "duplicates and order preserved")
}

func TestClassifyEmptyInput(t *testing.T) {
	res := Classify(nil)

	assert.NotNil(t, res.Numbers)
	assert.NotNil(t, res.Alphabets)
	assert.Empty(t, res.Numbers)
	assert.Empty(t, res.Alphabets)
	assert.Nil(t, res.HighestLowercase)
}

func TestParseNumberForms(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"+3", 3, true},
		{"-0.5", -0.5, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"1e3", 1000, true},
		{"\t2.5\n", 2.5, true},
		{"1e400", 0, false},
		{"12a", 0, false},
		{"1 2", 0, false},
		{"", 0, false},
		{"e", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		if c.ok {
			assert.Equal(t, c.want, got, "input %q", c.in)
		}
	}
}

// Re-joining both buckets in original relative order reproduces the valid subset of the input.
func TestClassifyRoundTrip(t *testing.T) {
	input := []any{"9", "q", "hello", "R", 2.5, "#", "  11 ", "m", "zz", "0"}
	res := Classify(input)

	var rebuilt []any
	ni, ai := 0, 0
	for _, tok := range input {
		if _, ok := ParseNumber(tok); ok {
			rebuilt = append(rebuilt, res.Numbers[ni])
			ni++
			continue
		}
		if _, ok := AsAlphabet(tok); ok {
			rebuilt = append(rebuilt, res.Alphabets[ai])
			ai++
		}
	}

	assert.Equal(t, len(res.Numbers), ni)
	assert.Equal(t, len(res.Alphabets), ai)
	assert.Equal(t, []any{9.0, "q", "R", 2.5, 11.0, "m", 0.0}, rebuilt)
}
