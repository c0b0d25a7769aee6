package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tokenscope/internal/attachment"
	"github.com/KaramelBytes/tokenscope/internal/insight"
)

// AnalyzeRequest is the request body for POST /api/v1/analyze.
type AnalyzeRequest struct {
	Data    any    `json:"data"`
	FileB64 string `json:"file_b64,omitempty"`
}

// AnalyzeResponse is the response body for POST /api/v1/analyze.
// The report's fields are flattened into the top-level object.
type AnalyzeResponse struct {
	IsSuccess  bool   `json:"is_success"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	RollNumber string `json:"roll_number"`
	*insight.Report
}

// OperationCodeResponse is the response body for GET /api/v1/analyze.
type OperationCodeResponse struct {
	OperationCode int `json:"operation_code"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status        string    `json:"status"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	StartedAt     time.Time `json:"started_at"`
	Version       string    `json:"version"`
}

// handleHealth reports liveness and uptime.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(s.started).Seconds(),
		StartedAt:     s.started.UTC(),
		Version:       s.config.Version,
	})
}

func (s *Server) handleOperationCode(c echo.Context) error {
	return c.JSON(http.StatusOK, OperationCodeResponse{OperationCode: 1})
}

// handleAnalyze validates the token array, inspects the optional attachment and
// returns the insight report.
func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid analyze request", zap.Error(err))
		return &ValidationError{Reason: "invalid JSON body"}
	}
	tokens, err := s.config.Limits.Validate(req.Data)
	if err != nil {
		return err
	}

	file := attachment.Inspect(req.FileB64)
	report := s.analyzer.Analyze(c.Request().Context(), tokens, file)

	s.logger.Debug("analysis complete",
		zap.Int("tokens", len(tokens)),
		zap.Int("numbers", len(report.Numbers)),
		zap.Int("alphabets", len(report.Alphabets)),
		zap.Float64("confidence", report.ConfidenceScore),
	)

	id := s.config.Identity
	return c.JSON(http.StatusOK, AnalyzeResponse{
		IsSuccess:  true,
		UserID:     id.UserID,
		Email:      id.Email,
		RollNumber: id.RollNumber,
		Report:     report,
	})
}
