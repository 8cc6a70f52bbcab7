package server

import (
	"net/http"
	"strings"

	"FitPlan_V0.1/internal/plan"
	"github.com/labstack/echo/v4"
)

type imageRequest struct {
	Prompt string `json:"prompt"`
	// Kind selects a photo template for a bare label: "diet" or "workout".
	Kind   string `json:"kind"`
	Suffix string `json:"suffix"`
}

// imageHandler illustrates a clicked item. A newer request from the same
// session cancels this one; the gateway then answers with its placeholder.
func (s *Server) imageHandler(c echo.Context) error {
	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgMissingInput})
	}

	switch kind := plan.ImageKind(strings.ToLower(req.Kind)); kind {
	case plan.ImageKindDiet, plan.ImageKindWorkout:
		prompt = plan.ImagePrompt(kind, prompt, req.Suffix)
	default:
		if suffix := strings.TrimSpace(req.Suffix); suffix != "" {
			prompt += " " + suffix
		}
	}

	ctx, done := s.inflight.Begin(c.Request().Context(), sessionID(c))
	defer done()

	result := s.planner.GenerateImage(ctx, prompt)
	if ctx.Err() != nil {
		requestLogger(c).Info().Msg("Image request superseded")
	}
	return c.JSON(http.StatusOK, result)
}
