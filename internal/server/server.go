/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the plan
generator, the session workspace and the image gateway into echo routes.
*/
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"FitPlan_V0.1/internal/config"
	"FitPlan_V0.1/internal/plan"
	"FitPlan_V0.1/internal/session"
	"FitPlan_V0.1/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Planner is the generation backend the handlers depend on.
type Planner interface {
	GeneratePlan(ctx context.Context, profile plan.UserProfile) (*plan.GeneratedPlan, error)
	Motivation(ctx context.Context) (string, error)
	GenerateImage(ctx context.Context, prompt string) plan.ImageResult
}

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	cfg     config.Config
	planner Planner

	// store backs workspace; kept for health reporting.
	store     *session.MemoryStore
	workspace *session.Workspace
	cookies   *session.Cookies
	inflight  *session.Inflight
	limiter   *utility.IPRateLimiter
	clientIP  echo.IPExtractor

	startTime time.Time
}

// New builds a Server. Without SESSION_SECRET a random signing key is used,
// so session cookies do not survive a restart.
func New(cfg config.Config, planner Planner) (*Server, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		token, err := utility.GenerateSecureToken(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		log.Warn().Msg("SESSION_SECRET is not set; using an ephemeral key")
		secret = token
	}

	clientIP, err := utility.NewIPExtractor(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	store := session.NewMemoryStore(cfg.SessionCapacity, cfg.SessionTTL)
	return &Server{
		cfg:       cfg,
		planner:   planner,
		store:     store,
		workspace: session.NewWorkspace(store),
		cookies:   session.NewCookies([]byte(secret), cfg.SessionTTL, !cfg.IsDevelopment()),
		inflight:  session.NewInflight(),
		limiter:   utility.NewIPRateLimiter(cfg.GenerateWindow, cfg.GenerateLimit),
		clientIP:  clientIP,
		startTime: time.Now(),
	}, nil
}

// NewServer returns a configured *http.Server with production-ready network
// timeouts. The write timeout leaves room for a full Gemini call.
func NewServer(cfg config.Config, planner Planner) (*http.Server, error) {
	newApp, err := New(cfg, planner)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      newApp.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 15*time.Second,
	}, nil
}
