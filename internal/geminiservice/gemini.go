package geminiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	jsonMimeType          = "application/json"
	apiKeyHeader          = "x-goog-api-key"
	genericProviderFailed = "Gemini API error (check server logs)"
)

// --- Structs for Gemini API Request/Response ---

type GeminiPayload struct {
	Contents []GeminiContent `json:"contents"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client talks to Gemini for plan text and to the image provider chain.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zerolog.Logger
}

// NewClient builds a Client. A nil logger disables gateway logging unless a
// request-scoped logger is carried by the call context.
func NewClient(cfg Config, log *zerolog.Logger) *Client {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  log,
	}
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// logger prefers the request-scoped logger attached to ctx.
func (c *Client) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return c.log
}

// Reply size caps. Image replies may carry base64 payloads.
var (
	maxTextBodyBytes  int64 = 4 << 20
	maxImageBodyBytes int64 = 32 << 20
)

// textURL must never carry the API key; it travels in apiKeyHeader.
func (c *Client) textURL() string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/v1/models/%s:generateContent", base, c.cfg.Model)
}

// GenerateText sends a single user prompt to generateContent and returns the
// first candidate's first text part. There is exactly one attempt per call.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	log := c.logger(ctx)

	if c.cfg.APIKey == "" {
		log.Error().Msg("GEMINI_API_KEY environment variable is not set")
		return "", ErrProviderUnavailable
	}

	payload := GeminiPayload{
		Contents: []GeminiContent{
			{Role: "user", Parts: []GeminiPart{{Text: prompt}}},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	reqCtx, cancel := withTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.textURL(), bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", jsonMimeType)
	req.Header.Set(apiKeyHeader, c.cfg.APIKey)

	start := time.Now()
	log.Info().Str("model", c.cfg.Model).Msg("Calling Gemini API...")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			log.Warn().Dur("elapsed", time.Since(start)).Msg("Gemini request timed out")
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
		}
		log.Warn().Err(err).Msg("Gemini request failed")
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body, maxTextBodyBytes)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
		}
		return "", fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := &ProviderError{StatusCode: resp.StatusCode, Message: providerMessage(body)}
		log.Error().Err(perr).Str("body", string(body)).Msg("Gemini API error")
		return "", perr
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrNetwork, err)
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("Gemini API replied")

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		if text := geminiResp.Candidates[0].Content.Parts[0].Text; text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyResponse
}

// providerMessage extracts error.message from an error body.
func providerMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return genericProviderFailed
	}
	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return msg
	}
	return genericProviderFailed
}

// readBody reads at most limit bytes and fails when the body is longer.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w (limit %d bytes)", errBodyTooLarge, limit)
	}
	return body, nil
}

// withTimeout bounds ctx by d; a non-positive d leaves it unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
