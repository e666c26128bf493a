package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/insights"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/observability"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

// TextGenerator is a text-generation backend. Implementations make a single
// attempt per call.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
	GenerateJSONObject(ctx context.Context, system string, user string) (string, error)
}

type Synthesis struct {
	Report string                     `json:"report"`
	Tiles  *insights.PersonalityTiles `json:"tiles"`
}

// ArtifactStore persists a completed synthesis.
type ArtifactStore interface {
	SaveSynthesis(ctx context.Context, userID string, s *Synthesis) error
}

type Synthesizer struct {
	log          *logger.Logger
	gen          TextGenerator
	stageTimeout time.Duration
}

func NewSynthesizer(log *logger.Logger, gen TextGenerator, stageTimeout time.Duration) *Synthesizer {
	if stageTimeout <= 0 {
		stageTimeout = 120 * time.Second
	}
	return &Synthesizer{
		log:          log.With("service", "ProfileSynthesizer"),
		gen:          gen,
		stageTimeout: stageTimeout,
	}
}

// Run synthesizes and then hands the result to store. The store is only
// called after both generation stages succeed.
func (s *Synthesizer) Run(ctx context.Context, userID string, agg *activity.Result, store ArtifactStore) (*Synthesis, error) {
	out, err := s.Synthesize(ctx, userID, agg)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "profile.persist")
	err = store.SaveSynthesis(ctx, userID, out)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}
	return out, nil
}

// Synthesize runs the report stage and then the tiles stage, which depends
// on the report text.
func (s *Synthesizer) Synthesize(ctx context.Context, userID string, agg *activity.Result) (*Synthesis, error) {
	if agg == nil {
		return nil, &StageError{Stage: StageReport, Err: errors.New("no aggregated activity")}
	}

	report, err := s.runStage(ctx, StageReport, func(ctx context.Context) (string, error) {
		prompt, err := buildReportPrompt(agg)
		if err != nil {
			return "", err
		}
		text, err := s.gen.GenerateText(ctx, reportSystemPrompt, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", errors.New("empty report")
		}
		return text, nil
	})
	if err != nil {
		return nil, err
	}

	var tiles *insights.PersonalityTiles
	_, err = s.runStage(ctx, StageTiles, func(ctx context.Context) (string, error) {
		prompt, err := buildTilesPrompt(report, agg)
		if err != nil {
			return "", err
		}
		raw, err := s.gen.GenerateJSONObject(ctx, tilesSystemPrompt, prompt)
		if err != nil {
			return "", err
		}
		tiles, err = ParseTiles(raw)
		return raw, err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Profile synthesized", "user_id", userID, "report_chars", len(report))
	return &Synthesis{Report: report, Tiles: tiles}, nil
}

func (s *Synthesizer) runStage(ctx context.Context, stage Stage, fn func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()
	ctx, span := observability.StartSpan(ctx, "profile.synthesize."+string(stage), attribute.String("stage", string(stage)))
	start := time.Now()

	out, err := fn(ctx)
	observability.EndSpan(span, err)
	if err != nil {
		s.log.Warn("Synthesis stage failed", "stage", string(stage), "elapsed", time.Since(start).String(), "error", err)
		return "", &StageError{Stage: stage, Err: err}
	}
	s.log.Debug("Synthesis stage done", "stage", string(stage), "elapsed", time.Since(start).String())
	return out, nil
}

// ParseTiles decodes a tiles response. Every category must be present as a
// string array; reasons are optional.
func ParseTiles(raw string) (*insights.PersonalityTiles, error) {
	var tiles insights.PersonalityTiles
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &tiles); err != nil {
		return nil, fmt.Errorf("tiles response is not a valid JSON object: %w", err)
	}
	if missing := tiles.MissingCategories(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, c := range missing {
			names[i] = string(c)
		}
		return nil, fmt.Errorf("tiles response missing categories: %s", strings.Join(names, ", "))
	}
	return &tiles, nil
}
