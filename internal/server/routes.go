package server

import (
	"net/http"

	"FitPlan_V0.1/internal/session"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = s.clientIP
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	e.GET("/health", s.healthHandler)

	api := e.Group("/api")
	api.Use(s.SessionMiddleware)

	// Plan generation
	api.POST("/generate", s.generateHandler, s.RateLimitMiddleware)
	api.POST("/regenerate", s.regenerateHandler, s.RateLimitMiddleware)
	api.GET("/results", s.resultsHandler)
	api.DELETE("/session", s.clearSessionHandler)

	// Illustrations and daily quote
	api.POST("/image/generate", s.imageHandler)
	api.GET("/motivation", s.motivationHandler)

	return e
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

		return next(c)
	}
}

// SessionMiddleware resolves the browser's session id from its cookie and
// scopes the request context to it.
func (s *Server) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := s.cookies.SessionID(c.Response(), c.Request())
		if err != nil {
			requestLogger(c).Error().Err(err).Msg("Failed to issue session cookie")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to start session"})
		}
		c.Set("session_id", id)
		c.SetRequest(c.Request().WithContext(session.WithID(c.Request().Context(), id)))
		return next(c)
	}
}

// RateLimitMiddleware bounds how often one client can trigger a generation.
func (s *Server) RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		if err := s.limiter.Check(ip); err != nil {
			requestLogger(c).Warn().Str("ip", ip).Msg("Generation rate limit hit")
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: err.Error()})
		}
		return next(c)
	}
}

// requestLogger returns the logger LoggerMiddleware stored on the context.
func requestLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get("logger").(*zerolog.Logger); ok {
		return l
	}
	return &log.Logger
}

func sessionID(c echo.Context) string {
	id, _ := c.Get("session_id").(string)
	return id
}
