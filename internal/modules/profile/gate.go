package profile

import (
	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
)

type GateState string

const (
	StateNoTiles            GateState = "no_tiles"
	StateTilesPendingReview GateState = "tiles_pending_review"
	StateConfirmed          GateState = "confirmed"
)

const (
	RouteUpload      = "/upload"
	RoutePreferences = "/preferences"
)

// StateOf derives the confirmation state from a profile. A profile without
// stored tiles is never confirmed, whatever its flags say.
func StateOf(p *types.UserProfile) GateState {
	switch {
	case p == nil || !p.HasTiles():
		return StateNoTiles
	case p.PreferenceChosen:
		return StateConfirmed
	default:
		return StateTilesPendingReview
	}
}

// RedirectFor is the route that resolves state, or "" when confirmed.
func RedirectFor(state GateState) string {
	switch state {
	case StateNoTiles:
		return RouteUpload
	case StateTilesPendingReview:
		return RoutePreferences
	default:
		return ""
	}
}

type Gate struct{}

// Require returns nil for confirmed profiles and a *RedirectError otherwise.
func (Gate) Require(p *types.UserProfile) error {
	state := StateOf(p)
	if state == StateConfirmed {
		return nil
	}
	return &RedirectError{State: state, To: RedirectFor(state)}
}
