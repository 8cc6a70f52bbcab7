package geminiservice

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable indicates no Gemini API key is configured.
	ErrProviderUnavailable = errors.New("gemini api key not configured")

	// ErrEmptyResponse indicates the provider answered without any text part.
	ErrEmptyResponse = errors.New("gemini returned no text content")

	// ErrNetwork indicates a transport failure or an undecodable response body.
	ErrNetwork = errors.New("network error calling gemini")

	// ErrTimeout indicates the per-call timeout elapsed before a reply arrived.
	ErrTimeout = errors.New("gemini request timed out")

	errBodyTooLarge = errors.New("response body too large")
)

// ProviderError is a non-2xx reply from Gemini.
type ProviderError struct {
	StatusCode int
	// Message is error.message from the reply body, or a generic text.
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini returned status %d: %s", e.StatusCode, e.Message)
}
