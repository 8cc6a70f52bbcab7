package server

import (
	"context"
	"errors"
	"net/http"

	"FitPlan_V0.1/internal/plan"
	"FitPlan_V0.1/internal/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

type generateRequest struct {
	User *plan.UserProfile `json:"user"`
}

type resultsResponse struct {
	Plan  *plan.GeneratedPlan `json:"plan"`
	View  plan.PlanView       `json:"view"`
	Quote string              `json:"quote,omitempty"`
}

// generateHandler runs the full pipeline for the submitted profile and
// stores the plan and profile in the session.
func (s *Server) generateHandler(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
	}
	if req.User == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing user details"})
	}

	return s.runPipeline(c, req.User.Trimmed())
}

// regenerateHandler re-runs the pipeline with the profile saved last time.
func (s *Server) regenerateHandler(c echo.Context) error {
	profile, err := s.workspace.LatestUser(c.Request().Context())
	if err != nil {
		if errors.Is(err, session.ErrNoSavedUser) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: msgNoSavedUser})
		}
		return writePipelineError(c, err)
	}

	return s.runPipeline(c, profile)
}

func (s *Server) runPipeline(c echo.Context, profile plan.UserProfile) error {
	ctx := c.Request().Context()
	log := requestLogger(c)

	generated, err := s.planner.GeneratePlan(ctx, profile)
	if err != nil {
		return writePipelineError(c, err)
	}

	if err := s.workspace.SavePlan(ctx, profile, generated); err != nil {
		log.Error().Err(err).Msg("Failed to store plan in session")
	}

	log.Info().Str("session_id", sessionID(c)).Msg("Plan stored")
	return c.JSON(http.StatusOK, generated)
}

// resultsHandler serves the stored plan with its view model. The daily quote
// is fetched alongside; a failed quote is left out rather than failing the page.
func (s *Server) resultsHandler(c echo.Context) error {
	log := requestLogger(c)

	var (
		stored *plan.GeneratedPlan
		quote  string
	)

	g, grpCtx := errgroup.WithContext(c.Request().Context())

	g.Go(func() error {
		p, err := s.workspace.LatestPlan(grpCtx)
		if err != nil {
			return err
		}
		stored = p
		return nil
	})

	g.Go(func() error {
		q, err := s.planner.Motivation(grpCtx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("Motivation quote unavailable")
			}
			return nil
		}
		quote = q
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, session.ErrNoSavedPlan) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: msgNoSavedPlan})
		}
		return writePipelineError(c, err)
	}

	return c.JSON(http.StatusOK, resultsResponse{
		Plan:  stored,
		View:  plan.BuildView(stored),
		Quote: quote,
	})
}

// clearSessionHandler is "start over": both stored values are removed.
func (s *Server) clearSessionHandler(c echo.Context) error {
	s.workspace.Clear(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
