package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"FitPlan_V0.1/internal/plan"
)

const (
	KeyLatestPlan = "latestPlan"
	KeyLatestUser = "latestUser"
)

var (
	// ErrNoSavedUser indicates the session has no profile to regenerate from.
	ErrNoSavedUser = errors.New("no saved user profile in session")

	// ErrNoSavedPlan indicates the session has no generated plan yet.
	ErrNoSavedPlan = errors.New("no saved plan in session")
)

// Workspace reads and writes the two session values on top of a Store.
type Workspace struct {
	store Store
}

func NewWorkspace(store Store) *Workspace {
	return &Workspace{store: store}
}

// SavePlan overwrites both the latest plan and the profile it came from.
func (w *Workspace) SavePlan(ctx context.Context, profile plan.UserProfile, p *plan.GeneratedPlan) error {
	planJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	userJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	w.store.Set(ctx, KeyLatestPlan, string(planJSON))
	w.store.Set(ctx, KeyLatestUser, string(userJSON))
	return nil
}

// LatestPlan returns the stored plan. A stored value that no longer decodes
// is treated as absent.
func (w *Workspace) LatestPlan(ctx context.Context) (*plan.GeneratedPlan, error) {
	raw, ok := w.store.Get(ctx, KeyLatestPlan)
	if !ok || raw == "" {
		return nil, ErrNoSavedPlan
	}
	var p plan.GeneratedPlan
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSavedPlan, err)
	}
	return &p, nil
}

// LatestUser returns the profile saved with the latest plan.
func (w *Workspace) LatestUser(ctx context.Context) (plan.UserProfile, error) {
	raw, ok := w.store.Get(ctx, KeyLatestUser)
	if !ok || raw == "" {
		return plan.UserProfile{}, ErrNoSavedUser
	}
	var profile plan.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return plan.UserProfile{}, fmt.Errorf("%w: %v", ErrNoSavedUser, err)
	}
	return profile, nil
}

// Clear starts over by removing both keys.
func (w *Workspace) Clear(ctx context.Context) {
	w.store.Remove(ctx, KeyLatestPlan)
	w.store.Remove(ctx, KeyLatestUser)
}
