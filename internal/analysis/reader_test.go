package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadTokensJSONArray(t *testing.T) {
	p := writeTemp(t, "in.json", `["1", 2.5, "a", "hello", 7]`)
	toks, err := ReadTokens(p)
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, "1", toks[0])
	assert.Equal(t, json.Number("2.5"), toks[1])
	assert.Equal(t, json.Number("7"), toks[4])
}

func TestReadTokensJSONObject(t *testing.T) {
	p := writeTemp(t, "in.json", `{"data": ["x", 3]}`)
	toks, err := ReadTokens(p)
	require.NoError(t, err)
	assert.Equal(t, []any{"x", json.Number("3")}, toks)

	bad := writeTemp(t, "bad.json", `{"items": []}`)
	_, err = ReadTokens(bad)
	assert.Error(t, err)

	scalar := writeTemp(t, "scalar.json", `42`)
	_, err = ReadTokens(scalar)
	assert.Error(t, err)
}

func TestReadTokensCSVSniffsSemicolon(t *testing.T) {
	p := writeTemp(t, "in.csv", "value;letter\n1;a\n2;B\n;z\n")
	toks, err := ReadTokens(p)
	require.NoError(t, err)
	assert.Equal(t, []any{"value", "letter", "1", "a", "2", "B", "z"}, toks)
}

func TestReadTokensTSV(t *testing.T) {
	p := writeTemp(t, "in.tsv", "1\t2\n3\tq\n")
	toks, err := ReadTokens(p)
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "2", "3", "q"}, toks)
}

func TestReadTokensPlainText(t *testing.T) {
	p := writeTemp(t, "in.txt", "1 2\n  a\tb\n\n3\n")
	toks, err := ReadTokens(p)
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "2", "a", "b", "3"}, toks)
}

func TestReadTokensMissingFile(t *testing.T) {
	_, err := ReadTokens(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, '\t', sniffDelimiter("x.TSV", []byte("a,b,c")))
	assert.Equal(t, ',', sniffDelimiter("x.csv", []byte("a,b;c\n;;;;")))
	assert.Equal(t, ';', sniffDelimiter("x.csv", []byte("a;b;c,d")))
	assert.Equal(t, ',', sniffDelimiter("x.csv", []byte("abc")))
}
