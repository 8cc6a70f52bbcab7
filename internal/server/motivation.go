package server

import (
	"errors"
	"net/http"

	"FitPlan_V0.1/internal/geminiservice"
	"github.com/labstack/echo/v4"
)

type motivationResponse struct {
	Quote string `json:"quote"`
}

func (s *Server) motivationHandler(c echo.Context) error {
	quote, err := s.planner.Motivation(c.Request().Context())
	if err != nil {
		if errors.Is(err, geminiservice.ErrEmptyResponse) {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "No quote returned"})
		}
		return writePipelineError(c, err)
	}
	return c.JSON(http.StatusOK, motivationResponse{Quote: quote})
}
