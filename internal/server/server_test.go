package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"FitPlan_V0.1/internal/config"
	"FitPlan_V0.1/internal/geminiservice"
	"FitPlan_V0.1/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planReply = `{
	"summary": "Lean out in a week.",
	"workoutPlan": [{"day": "Monday", "focus": "Cardio", "exercises": [{"name": "Rowing", "sets": 1, "reps": "20 min"}]}],
	"dietPlan": {"Monday": {"Breakfast": ["Oats"], "Lunch": ["Rice", "Beans"]}},
	"tips": ["Drink water"],
	"motivation": "Keep moving."
}`

type fakePlanner struct {
	mu       sync.Mutex
	profiles []plan.UserProfile
	planErr  error
	quote    string
	quoteErr error
	image    func(ctx context.Context, prompt string) plan.ImageResult
}

func (f *fakePlanner) GeneratePlan(_ context.Context, profile plan.UserProfile) (*plan.GeneratedPlan, error) {
	f.mu.Lock()
	f.profiles = append(f.profiles, profile)
	f.mu.Unlock()
	if f.planErr != nil {
		return nil, f.planErr
	}
	return plan.ParseReply(planReply)
}

func (f *fakePlanner) Motivation(context.Context) (string, error) {
	return f.quote, f.quoteErr
}

func (f *fakePlanner) GenerateImage(ctx context.Context, prompt string) plan.ImageResult {
	if f.image != nil {
		return f.image(ctx, prompt)
	}
	return plan.ImageResult{ImageURL: geminiservice.PlaceholderImageURL(prompt), Prompt: prompt}
}

func (f *fakePlanner) calls() []plan.UserProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]plan.UserProfile(nil), f.profiles...)
}

func testServerConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	return cfg
}

// browser replays the session cookie across requests like a real client.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
	headers map[string]string
}

func newBrowser(t *testing.T, planner Planner, cfg config.Config) *browser {
	t.Helper()
	s, err := New(cfg, planner)
	require.NoError(t, err)
	return &browser{t: t, handler: s.RegisterRoutes()}
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		b.cookies = cookies
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGenerate_ReturnsCanonicalPlan(t *testing.T) {
	fp := &fakePlanner{}
	b := newBrowser(t, fp, testServerConfig())

	rec := b.do(http.MethodPost, "/api/generate", `{"user":{"name":"  Ana ","goal":"Weight Loss","age":31}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var got plan.GeneratedPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Lean out in a week.", got.Summary)
	require.Len(t, got.DietPlan, 7)
	require.Len(t, got.WorkoutPlan, 7)
	assert.Equal(t, []plan.Meal{
		{Meal: "Breakfast", Items: []string{"Oats"}},
		{Meal: "Lunch", Items: []string{"Rice", "Beans"}},
	}, got.DietPlan[0].Meals)

	calls := fp.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Ana", calls[0].Name)
	assert.Equal(t, "31", calls[0].Age)
}

func TestGenerate_MalformedBody(t *testing.T) {
	b := newBrowser(t, &fakePlanner{}, testServerConfig())

	rec := b.do(http.MethodPost, "/api/generate", `{"user":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = b.do(http.MethodPost, "/api/generate", `{"user":["not","an","object"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = b.do(http.MethodPost, "/api/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_PipelineErrors(t *testing.T) {
	_, parseErr := plan.ParseReply("Sorry, I cannot do that")
	require.Error(t, parseErr)

	tests := []struct {
		name    string
		err     error
		wantMsg string
		wantRaw string
	}{
		{"missing key", geminiservice.ErrProviderUnavailable, "Missing GEMINI_API_KEY", ""},
		{"provider", &geminiservice.ProviderError{StatusCode: 400, Message: "API key not valid."}, "API key not valid.", ""},
		{"empty", geminiservice.ErrEmptyResponse, "AI returned no text content.", ""},
		{"parse", parseErr, "AI response was not valid JSON, even after cleanup. Check the raw_output below.", "Sorry, I cannot do that"},
		{"network", fmt.Errorf("%w: dial tcp", geminiservice.ErrNetwork), "Network or server error connecting to the API.", ""},
		{"timeout", geminiservice.ErrTimeout, "Network or server error connecting to the API.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrowser(t, &fakePlanner{planErr: tt.err}, testServerConfig())

			rec := b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`)
			require.Equal(t, http.StatusInternalServerError, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, tt.wantMsg, body["error"])
			if tt.wantRaw != "" {
				assert.Equal(t, tt.wantRaw, body["raw_output"])
			} else {
				assert.NotContains(t, body, "raw_output")
			}
		})
	}
}

func TestRegenerate_UsesSavedProfile(t *testing.T) {
	fp := &fakePlanner{}
	b := newBrowser(t, fp, testServerConfig())

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana","level":"Beginner"}}`).Code)
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/regenerate", "").Code)

	calls := fp.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Ana", calls[1].Name)
	assert.Equal(t, "Beginner", calls[1].Level)
}

func TestRegenerate_WithoutSavedUser(t *testing.T) {
	fp := &fakePlanner{}
	b := newBrowser(t, fp, testServerConfig())

	rec := b.do(http.MethodPost, "/api/regenerate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNoSavedUser, decode(t, rec)["error"])
	assert.Empty(t, fp.calls())
}

func TestResults_PlanViewAndQuote(t *testing.T) {
	b := newBrowser(t, &fakePlanner{quote: "Stronger every day."}, testServerConfig())

	rec := b.do(http.MethodGet, "/api/results", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)

	rec = b.do(http.MethodGet, "/api/results", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Plan  plan.GeneratedPlan `json:"plan"`
		View  plan.PlanView      `json:"view"`
		Quote string             `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Stronger every day.", got.Quote)
	assert.Equal(t, "Lean out in a week.", got.Plan.Summary)
	require.Len(t, got.View.Diet, 7)
	assert.Equal(t, "Breakfast", got.View.Diet[0].Meals[0].Label)
	assert.Equal(t, "No meals listed for Sunday.", got.View.Diet[6].EmptyText)
	assert.Equal(t, "1 • 20 min", got.View.Workout[0].Exercises[0].Detail)
}

func TestResults_QuoteFailureIsTolerated(t *testing.T) {
	b := newBrowser(t, &fakePlanner{quoteErr: geminiservice.ErrTimeout}, testServerConfig())
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)

	rec := b.do(http.MethodGet, "/api/results", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decode(t, rec), "quote")
}

func TestSessions_AreIsolated(t *testing.T) {
	fp := &fakePlanner{}
	s, err := New(testServerConfig(), fp)
	require.NoError(t, err)
	handler := s.RegisterRoutes()

	alice := &browser{t: t, handler: handler}
	bob := &browser{t: t, handler: handler}

	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/api/generate", `{"user":{"name":"Alice"}}`).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodGet, "/api/results", "").Code)
}

func TestClearSession_StartsOver(t *testing.T) {
	b := newBrowser(t, &fakePlanner{}, testServerConfig())
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)

	rec := b.do(http.MethodDelete, "/api/session", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusNotFound, b.do(http.MethodGet, "/api/results", "").Code)
	assert.Equal(t, http.StatusNotFound, b.do(http.MethodPost, "/api/regenerate", "").Code)
}

func TestImage_AppliesTemplate(t *testing.T) {
	b := newBrowser(t, &fakePlanner{}, testServerConfig())

	rec := b.do(http.MethodPost, "/api/image/generate", `{"prompt":"Oats","kind":"diet"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got plan.ImageResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "High-quality plated food photo of Oats, natural lighting, 4k, photorealistic", got.Prompt)
	assert.True(t, strings.HasPrefix(got.ImageURL, "https://source.unsplash.com/800x600/?"))

	rec = b.do(http.MethodPost, "/api/image/generate", `{"prompt":"a red apple","suffix":"studio light"}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "a red apple studio light", got.Prompt)
}

func TestImage_MissingPrompt(t *testing.T) {
	b := newBrowser(t, &fakePlanner{}, testServerConfig())

	rec := b.do(http.MethodPost, "/api/image/generate", `{"prompt":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing prompt", decode(t, rec)["error"])
}

func TestImage_NewRequestSupersedesPrevious(t *testing.T) {
	started := make(chan struct{})
	superseded := make(chan error, 1)
	fp := &fakePlanner{
		image: func(ctx context.Context, prompt string) plan.ImageResult {
			if prompt == "first" {
				close(started)
				select {
				case <-ctx.Done():
					superseded <- ctx.Err()
				case <-time.After(2 * time.Second):
					superseded <- nil
				}
			}
			return plan.ImageResult{ImageURL: geminiservice.PlaceholderImageURL(prompt), Prompt: prompt}
		},
	}
	b := newBrowser(t, fp, testServerConfig())
	// Establish the session cookie before issuing concurrent requests.
	b.do(http.MethodGet, "/api/results", "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.do(http.MethodPost, "/api/image/generate", `{"prompt":"first"}`)
	}()

	<-started
	rec := b.do(http.MethodPost, "/api/image/generate", `{"prompt":"second"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.ErrorIs(t, <-superseded, context.Canceled)
	<-done
}

func TestMotivation(t *testing.T) {
	b := newBrowser(t, &fakePlanner{quote: "Show up."}, testServerConfig())
	rec := b.do(http.MethodGet, "/api/motivation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Show up.", decode(t, rec)["quote"])

	b = newBrowser(t, &fakePlanner{quoteErr: geminiservice.ErrProviderUnavailable}, testServerConfig())
	rec = b.do(http.MethodGet, "/api/motivation", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Missing GEMINI_API_KEY", decode(t, rec)["error"])
}

func TestGenerate_RateLimited(t *testing.T) {
	cfg := testServerConfig()
	cfg.GenerateLimit = 1
	b := newBrowser(t, &fakePlanner{}, cfg)

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)
}

func TestGenerate_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := testServerConfig()
	cfg.GenerateLimit = 1
	b := newBrowser(t, &fakePlanner{}, cfg)

	b.headers = map[string]string{"X-Forwarded-For": "203.0.113.1", "X-Real-IP": "203.0.113.1"}
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)

	b.headers = map[string]string{"X-Forwarded-For": "203.0.113.2", "X-Real-IP": "203.0.113.2"}
	assert.Equal(t, http.StatusTooManyRequests, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)
}

func TestGenerate_RateLimitTrustsConfiguredProxy(t *testing.T) {
	cfg := testServerConfig()
	cfg.GenerateLimit = 1
	// httptest requests come from 192.0.2.1.
	cfg.TrustedProxies = []string{"192.0.2.0/24"}
	b := newBrowser(t, &fakePlanner{}, cfg)

	b.headers = map[string]string{"X-Forwarded-For": "203.0.113.1"}
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)

	b.headers = map[string]string{"X-Forwarded-For": "203.0.113.2"}
	assert.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)

	assert.Equal(t, http.StatusTooManyRequests, b.do(http.MethodPost, "/api/generate", `{"user":{"name":"Ana"}}`).Code)
}

func TestNew_RejectsInvalidTrustedProxy(t *testing.T) {
	cfg := testServerConfig()
	cfg.TrustedProxies = []string{"nonsense"}
	_, err := New(cfg, &fakePlanner{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	b := newBrowser(t, &fakePlanner{}, testServerConfig())

	rec := b.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "online", body["status"])
	service, ok := body["service"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, service["gemini_configured"])
	assert.Equal(t, "gemini-2.5-flash", service["model"])

	if runtime, ok := body["runtime"].(map[string]any); ok {
		assert.NotContains(t, runtime, "hostname")
		assert.NotContains(t, runtime, "procs")
	}
}
