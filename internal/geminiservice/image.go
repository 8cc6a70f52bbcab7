package geminiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"FitPlan_V0.1/internal/plan"
	"github.com/tidwall/gjson"
)

const placeholderImageURL = "https://source.unsplash.com/800x600/?"

var whitespaceRunRe = regexp.MustCompile(`\s+`)

// errUnrecognizedImage means a provider answered but no image could be found
// in its reply.
var errUnrecognizedImage = errors.New("unrecognized image response shape")

type imagePayload struct {
	Prompt      string `json:"prompt"`
	ImageFormat string `json:"imageFormat,omitempty"`
	Size        string `json:"size,omitempty"`
}

// imageProvider is one link of the fallback chain.
type imageProvider struct {
	name     string
	generate func(ctx context.Context, prompt string) (string, error)
}

// GenerateImage resolves prompt to an image URL. Configured providers are
// tried in order and the first usable reply wins; when every provider fails,
// or the caller's context is cancelled, a stock-photo search URL is returned.
// It never fails.
func (c *Client) GenerateImage(ctx context.Context, prompt string) plan.ImageResult {
	log := c.logger(ctx)

	for _, p := range c.imageProviders() {
		if ctx.Err() != nil {
			log.Info().Str("provider", p.name).Msg("Image request cancelled, using placeholder")
			break
		}
		imageURL, err := p.generate(ctx, prompt)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.name).Msg("Image provider failed")
			continue
		}
		log.Info().Str("provider", p.name).Msg("Image generated")
		return plan.ImageResult{ImageURL: imageURL, Prompt: prompt}
	}

	return plan.ImageResult{ImageURL: PlaceholderImageURL(prompt), Prompt: prompt}
}

func (c *Client) imageProviders() []imageProvider {
	var providers []imageProvider
	if c.cfg.ImageProviderURL != "" && c.cfg.ImageProviderKey != "" {
		providers = append(providers, imageProvider{name: "nano", generate: c.nanoImage})
	}
	if c.cfg.ImageEnabled && c.cfg.APIKey != "" {
		providers = append(providers, imageProvider{name: "gemini", generate: c.geminiImage})
	}
	return providers
}

// nanoImage calls the generic provider, which answers {url} or {image}.
func (c *Client) nanoImage(ctx context.Context, prompt string) (string, error) {
	bearer := func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+c.cfg.ImageProviderKey)
	}
	_, body, err := c.postImage(ctx, c.cfg.ImageProviderURL, imagePayload{Prompt: prompt}, bearer)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", errUnrecognizedImage
	}
	doc := gjson.ParseBytes(body)
	if u := doc.Get("url").String(); u != "" {
		return u, nil
	}
	if img := doc.Get("image").String(); img != "" {
		return img, nil
	}
	return "", errUnrecognizedImage
}

func (c *Client) geminiImage(ctx context.Context, prompt string) (string, error) {
	endpoint := strings.TrimRight(c.cfg.ImageBaseURL, "/") + "/v1/images:generate"
	payload := imagePayload{Prompt: prompt, ImageFormat: "PNG", Size: "1024x1024"}
	apiKey := func(r *http.Request) {
		r.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}

	status, body, err := c.postImage(ctx, endpoint, payload, apiKey)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", &ProviderError{StatusCode: status, Message: providerMessage(body)}
	}
	if found := probeImageReply(body); found != "" {
		return found, nil
	}
	return "", errUnrecognizedImage
}

func (c *Client) postImage(ctx context.Context, endpoint string, payload imagePayload, decorate func(*http.Request)) (int, []byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	reqCtx, cancel := withTimeout(ctx, c.cfg.ImageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", jsonMimeType)
	if decorate != nil {
		decorate(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return 0, nil, ErrTimeout
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body, maxImageBodyBytes)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	return resp.StatusCode, body, nil
}

// probeImageReply looks for an image in the reply shapes Gemini-style image
// endpoints have been seen to return. Within one shape a later key overrides
// an earlier one.
func probeImageReply(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	doc := gjson.ParseBytes(body)

	if a := firstElement(doc, "artifacts"); a.Exists() {
		if found := lastNonEmpty(a, "image", "uri"); found != "" {
			return found
		}
	}
	if cand := firstElement(doc, "candidates"); cand.Exists() {
		if found := lastNonEmpty(cand, "image", "uri"); found != "" {
			return found
		}
	}
	if im := firstElement(doc, "images"); im.Exists() {
		found := im.Get("url").String()
		if b64 := im.Get("b64_json").String(); b64 != "" {
			found = dataURI(b64)
		}
		if b64 := im.Get("base64").String(); b64 != "" {
			found = dataURI(b64)
		}
		if found != "" {
			return found
		}
	}
	if d := doc.Get("data.0"); d.Exists() {
		var found string
		if b64 := d.Get("b64_json").String(); b64 != "" {
			found = dataURI(b64)
		}
		if u := d.Get("url").String(); u != "" {
			found = u
		}
		return found
	}
	return ""
}

func firstElement(doc gjson.Result, key string) gjson.Result {
	arr := doc.Get(key)
	if !arr.IsArray() {
		return gjson.Result{}
	}
	return arr.Get("0")
}

func lastNonEmpty(obj gjson.Result, keys ...string) string {
	var found string
	for _, k := range keys {
		if v := obj.Get(k).String(); v != "" {
			found = v
		}
	}
	return found
}

func dataURI(b64 string) string {
	return "data:image/png;base64," + b64
}

// PlaceholderImageURL builds the stock-photo search URL used when no image
// provider produced a result. Whitespace runs in the prompt become "+" before
// the whole query is component-encoded.
func PlaceholderImageURL(prompt string) string {
	return placeholderImageURL + encodeURIComponent(whitespaceRunRe.ReplaceAllString(prompt, "+"))
}

// encodeURIComponent escapes s like url.QueryEscape but leaves the marks
// !'()* unescaped, matching the browser's encodeURIComponent.
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	return strings.NewReplacer(
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	).Replace(escaped)
}
