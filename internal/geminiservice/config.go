package geminiservice

import "time"

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
)

// Config holds everything the gateway needs to reach its providers.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// ImageProviderURL and ImageProviderKey configure the generic image
	// provider tried before Gemini. Both must be set for it to be used.
	ImageProviderURL string
	ImageProviderKey string

	ImageEnabled bool
	ImageBaseURL string
	ImageTimeout time.Duration
}

// DefaultConfig returns a Config with no credentials.
func DefaultConfig() Config {
	return Config{
		Model:        DefaultModel,
		BaseURL:      DefaultBaseURL,
		Timeout:      30 * time.Second,
		ImageEnabled: true,
		ImageBaseURL: DefaultBaseURL,
		ImageTimeout: 20 * time.Second,
	}
}
