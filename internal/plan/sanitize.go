package plan

import "strings"

const fence = "```"

// Sanitize strips markdown code-fence wrapping from a model reply so the
// payload has a better chance of being valid JSON. It never fails; text
// without a leading fence is only trimmed.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, fence) {
		return text
	}

	// The opening fence line may carry a language tag (```json).
	openEnd := strings.Index(text, "\n")
	closeStart := strings.LastIndex(text, fence)

	switch {
	case openEnd != -1 && closeStart > openEnd:
		return strings.TrimSpace(text[openEnd:closeStart])
	case closeStart >= len(fence):
		// Single line like ```{...}```.
		return strings.TrimSpace(text[len(fence):closeStart])
	default:
		return strings.TrimSpace(text[len(fence):])
	}
}

// SanitizeQuote cleans a short free-text reply such as a motivation quote.
// Fenced replies keep the text between the fences; anything else has every
// fence marker removed.
func SanitizeQuote(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, fence) {
		return text
	}

	openEnd := strings.Index(text, "\n")
	closeStart := strings.LastIndex(text, fence)
	if openEnd != -1 && closeStart > openEnd {
		return strings.TrimSpace(text[openEnd:closeStart])
	}
	return strings.TrimSpace(strings.ReplaceAll(text, fence, ""))
}
