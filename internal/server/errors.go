package server

import (
	"errors"
	"net/http"

	"FitPlan_V0.1/internal/geminiservice"
	"FitPlan_V0.1/internal/plan"
	"github.com/labstack/echo/v4"
)

const (
	msgMissingKey   = "Missing GEMINI_API_KEY"
	msgEmptyText    = "AI returned no text content."
	msgInvalidJSON  = "AI response was not valid JSON, even after cleanup. Check the raw_output below."
	msgNetwork      = "Network or server error connecting to the API."
	msgInvalidBody  = "Invalid request body"
	msgNoSavedUser  = "No saved user details. Generate a plan first."
	msgNoSavedPlan  = "No plan found. Generate a plan first."
	msgMissingInput = "Missing prompt"
)

type errorResponse struct {
	Error     string `json:"error"`
	RawOutput string `json:"raw_output,omitempty"`
}

// pipelineErrorResponse maps a generation failure to the body the browser
// shows. Every pipeline failure is a 500.
func pipelineErrorResponse(err error) errorResponse {
	var (
		parseErr    *plan.ParseError
		providerErr *geminiservice.ProviderError
	)
	switch {
	case errors.Is(err, geminiservice.ErrProviderUnavailable):
		return errorResponse{Error: msgMissingKey}
	case errors.As(err, &providerErr):
		return errorResponse{Error: providerErr.Message}
	case errors.Is(err, geminiservice.ErrEmptyResponse):
		return errorResponse{Error: msgEmptyText}
	case errors.As(err, &parseErr):
		return errorResponse{Error: msgInvalidJSON, RawOutput: parseErr.Raw}
	default:
		return errorResponse{Error: msgNetwork}
	}
}

func writePipelineError(c echo.Context, err error) error {
	requestLogger(c).Error().Err(err).Msg("Plan pipeline failed")
	return c.JSON(http.StatusInternalServerError, pipelineErrorResponse(err))
}
