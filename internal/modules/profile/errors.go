package profile

import (
	"fmt"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/insights"
)

// Stage names a synthesis step.
type Stage string

const (
	StageReport  Stage = "report"
	StageTiles   Stage = "tiles"
	StagePersist Stage = "persist"
)

// StageError is a hard synthesis failure. Nothing is persisted when the
// failing stage is StageReport or StageTiles.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("profile synthesis failed at %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// RedirectError reports that the caller must first complete an earlier step.
type RedirectError struct {
	State GateState
	To    string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("preferences not confirmed (state=%s); continue at %s", e.State, e.To)
}

// SelectionError rejects a confirmation payload.
type SelectionError struct {
	Category insights.Category
	Tag      string
	Reason   string
}

func (e *SelectionError) Error() string {
	switch {
	case e.Tag != "":
		return fmt.Sprintf("invalid selection for %q: tag %q %s", e.Category, e.Tag, e.Reason)
	case e.Category != "":
		return fmt.Sprintf("invalid selection for %q: %s", e.Category, e.Reason)
	default:
		return "invalid selection: " + e.Reason
	}
}
