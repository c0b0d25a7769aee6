package analysis

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadTokens loads raw tokens from a file for offline analysis.
//
// Supported sources:
//   - .json: an array of strings/numbers, or an object with a "data" array
//   - .csv / .tsv: every cell is a token; header cells are ordinary tokens
//   - anything else: whitespace-separated fields
func ReadTokens(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSONTokens(data)
	case ".csv", ".tsv":
		return parseDelimitedTokens(data, sniffDelimiter(path, data))
	default:
		return parseTextTokens(data)
	}
}

func parseJSONTokens(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json tokens: %w", err)
	}
	switch v := raw.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if arr, ok := v["data"].([]any); ok {
			return arr, nil
		}
		return nil, errors.New("json object has no \"data\" array")
	default:
		return nil, errors.New("json tokens must be an array")
	}
}

func parseDelimitedTokens(data []byte, delim rune) ([]any, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	tokens := []any{}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		for _, cell := range rec {
			if cell == "" {
				continue
			}
			tokens = append(tokens, cell)
		}
	}
	return tokens, nil
}

func parseTextTokens(data []byte) ([]any, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Split(bufio.ScanWords)
	tokens := []any{}
	for sc.Scan() {
		tokens = append(tokens, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan tokens: %w", err)
	}
	return tokens, nil
}

// sniffDelimiter picks tab for .tsv files, otherwise the most frequent of ',', ';' and tab
// in the first line, defaulting to comma.
func sniffDelimiter(path string, data []byte) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	best, bestN := ',', bytes.Count(first, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(first, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
