package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tokenscope/internal/insight"
)

func newTestServer(t *testing.T, cfg *Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 0}
	}
	s, err := NewServer(insight.NewAnalyzer(), zap.NewNop(), cfg)
	require.NoError(t, err)
	return s
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(nil, zap.NewNop(), nil)
	assert.Error(t, err)
	_, err = NewServer(insight.NewAnalyzer(), nil, nil)
	assert.Error(t, err)

	s, err := NewServer(insight.NewAnalyzer(), zap.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimits(), s.config.Limits)
	assert.Equal(t, "2M", s.config.BodyLimit)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &Config{Version: "1.2.3"})
	rec := do(s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Contains(t, body, "uptime_seconds")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestOperationCode(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(s, http.MethodGet, "/api/v1/analyze", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"operation_code":1}`, rec.Body.String())
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, &Config{Identity: Identity{
		UserID:     "jane_doe_01011990",
		Email:      "jane@example.com",
		RollNumber: "ABC123",
	}})
	rec := do(s, http.MethodPost, "/api/v1/analyze", `{"data":["a","1","334","4","R","$",7]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["is_success"])
	assert.Equal(t, "jane_doe_01011990", body["user_id"])
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "ABC123", body["roll_number"])
	assert.Equal(t, []any{1.0, 334.0, 4.0, 7.0}, body["numbers"])
	assert.Equal(t, []any{"a", "R"}, body["alphabets"])
	assert.Equal(t, "a", body["highest_lowercase_alphabet"])
	assert.NotContains(t, body, "file")

	summary, ok := body["math"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 346.0, summary["sum"])

	insights, ok := body["insights"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, insight.FallbackAnalysis, insights["analysis"])
	assert.Equal(t, 0.0, insights["confidence"])
	assert.Contains(t, body, "confidence_score")
}

func TestAnalyzeEmptyArray(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(s, http.MethodPost, "/api/v1/analyze", `{"data":[]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, []any{}, body["numbers"])
	assert.Equal(t, []any{}, body["alphabets"])
	assert.Nil(t, body["highest_lowercase_alphabet"])
}

func TestAnalyzeWithFile(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(s, http.MethodPost, "/api/v1/analyze", `{"data":["b"],"file_b64":"SGVsbG8gd29ybGQ="}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	file, ok := decode(t, rec)["file"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, file["file_valid"])
	assert.Equal(t, "text/plain", file["file_mime_type"])

	rec = do(s, http.MethodPost, "/api/v1/analyze", `{"data":["b"],"file_b64":"%%%"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	file, ok = decode(t, rec)["file"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, file["file_valid"])
}

func TestAnalyzeValidation(t *testing.T) {
	s := newTestServer(t, &Config{Limits: Limits{MaxItems: 3, MaxStringLen: 5, MaxAbsNumber: 1000}})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing data", `{}`, "data: is required"},
		{"not an array", `{"data":"abc"}`, "data: must be an array"},
		{"too many items", `{"data":[1,2,3,4]}`, "data: must contain at most 3 items"},
		{"long string", `{"data":["abcdef"]}`, "data[0]: string longer than 5 characters"},
		{"large number", `{"data":[1,1001]}`, "data[1]"},
		{"large numeric string", `{"data":["1e308"]}`, "data[0]: number must be finite"},
		{"negative numeric string", `{"data":["a","-1001"]}`, "data[1]"},
		{"boolean", `{"data":[true]}`, "data[0]: must be a string or a number"},
		{"nested", `{"data":[[1]]}`, "data[0]: must be a string or a number"},
		{"malformed json", `{"data":`, "invalid JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/api/v1/analyze", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decode(t, rec)
			assert.Equal(t, false, body["is_success"])
			assert.Contains(t, body["error"], tt.want)
		})
	}
}

func TestLimitsValidate(t *testing.T) {
	l := Limits{MaxItems: 5, MaxStringLen: 10, MaxAbsNumber: 1000}

	toks, err := l.Validate([]any{"1000", json.Number("-999.5"), 12.0, "x", "-"})
	require.NoError(t, err)
	assert.Len(t, toks, 5)

	_, err = l.Validate([]any{json.Number("1e308")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data[0]")

	_, err = l.Validate([]any{"1", "1e308"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data[1]")
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, &Config{BodyLimit: "1K"})
	payload := `{"data":["` + strings.Repeat("a", 2048) + `"]}`
	rec := do(s, http.MethodPost, "/api/v1/analyze", payload)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, false, decode(t, rec)["is_success"])
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &Config{RateLimitRPS: 0.001, RateLimitBurst: 1})

	rec := do(s, http.MethodGet, "/api/v1/analyze", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/analyze", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decode(t, rec)["error"])

	// health is outside the limited group
	rec = do(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["is_success"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	do(s, http.MethodPost, "/api/v1/analyze", `{"data":["1"]}`)

	rec := do(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tokenscope_http_rate_limited_total")
	assert.Contains(t, rec.Body.String(), "tokenscope_insight_analyses_total")
}
