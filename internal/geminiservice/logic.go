package geminiservice

import (
	"context"
	"errors"

	"FitPlan_V0.1/internal/plan"
)

// GeneratePlan is the main orchestrator.
// It builds the prompt, calls Gemini once and turns the reply into a
// normalized plan. A reply that is not a JSON object comes back as a
// *plan.ParseError carrying the raw text.
func (c *Client) GeneratePlan(ctx context.Context, profile plan.UserProfile) (*plan.GeneratedPlan, error) {
	log := c.logger(ctx)

	raw, err := c.GenerateText(ctx, BuildPlanPrompt(profile))
	if err != nil {
		return nil, err
	}

	generated, err := plan.Parse(plan.Sanitize(raw), raw)
	if err != nil {
		var pe *plan.ParseError
		if errors.As(err, &pe) {
			log.Warn().Err(pe.Cause).Int("raw_len", len(pe.Raw)).Msg("Gemini reply was not valid plan JSON")
		}
		return nil, err
	}

	shape := plan.ClassifyDiet(generated.RawDiet)
	plan.Normalize(generated)

	log.Info().
		Str("diet_shape", shape.Kind.String()).
		Int("tips", len(generated.Tips)).
		Msg("Plan generated")
	return generated, nil
}

// Motivation fetches a short quote and strips any fences around it.
func (c *Client) Motivation(ctx context.Context) (string, error) {
	raw, err := c.GenerateText(ctx, MotivationPrompt)
	if err != nil {
		return "", err
	}
	quote := plan.SanitizeQuote(raw)
	if quote == "" {
		return "", ErrEmptyResponse
	}
	return quote, nil
}
