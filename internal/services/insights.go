package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/repos"
	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/profile"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/dbctx"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/gcp"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/locks"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

// Blob object names under each user's prefix.
const (
	ReportObject    = "personality_report.txt"
	TilesObject     = "personality_tiles.json"
	AggregateObject = "activity_aggregate.json"
)

// ProfileSeed carries identity-provider claims used when a profile row is
// first created.
type ProfileSeed struct {
	Email       string
	DisplayName string
	AvatarURL   string
}

type ProfileView struct {
	Profile  *types.UserProfile `json:"profile"`
	State    profile.GateState  `json:"state"`
	Redirect string             `json:"redirect,omitempty"`
}

type TilesView struct {
	Tiles *types.PersonalityTiles `json:"tiles"`
	State profile.GateState       `json:"state"`
}

type InsightsView struct {
	Report string                  `json:"report"`
	Tiles  *types.PersonalityTiles `json:"tiles"`
}

type InsightsService interface {
	GetProfile(ctx context.Context, userID string, seed ProfileSeed) (*ProfileView, error)
	Aggregate(ctx context.Context, userID string, raw []byte) (*activity.Result, error)
	Synthesize(ctx context.Context, userID string) (*profile.Synthesis, error)
	GetTiles(ctx context.Context, userID string) (*TilesView, error)
	ConfirmTiles(ctx context.Context, userID string, selections profile.Selections) (*types.UserProfile, error)
	GetInsights(ctx context.Context, userID string) (*InsightsView, error)
	CompleteOnboarding(ctx context.Context, userID string) (*types.UserProfile, error)
	Reset(ctx context.Context, userID string) error
}

type insightsService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
	dataRepo    repos.UserDataRepo
	bucket      gcp.BucketService
	locker      locks.UserLocker
	aggregator  *activity.Aggregator
	synthesizer *profile.Synthesizer
	now         func() time.Time
}

func NewInsightsService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.UserProfileRepo,
	dataRepo repos.UserDataRepo,
	bucket gcp.BucketService,
	locker locks.UserLocker,
	aggregator *activity.Aggregator,
	synthesizer *profile.Synthesizer,
) InsightsService {
	serviceLog := log.With("service", "InsightsService")
	return &insightsService{
		db:          db,
		log:         serviceLog,
		profileRepo: profileRepo,
		dataRepo:    dataRepo,
		bucket:      bucket,
		locker:      locker,
		aggregator:  aggregator,
		synthesizer: synthesizer,
		now:         time.Now,
	}
}

func (s *insightsService) GetProfile(ctx context.Context, userID string, seed ProfileSeed) (*ProfileView, error) {
	p, err := s.profileRepo.GetOrCreate(dbctx.Context{Ctx: ctx}, &types.UserProfile{
		UserID:      userID,
		Email:       seed.Email,
		DisplayName: seed.DisplayName,
		AvatarURL:   seed.AvatarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	state := profile.StateOf(p)
	return &ProfileView{Profile: p, State: state, Redirect: profile.RedirectFor(state)}, nil
}

func (s *insightsService) Aggregate(ctx context.Context, userID string, raw []byte) (*activity.Result, error) {
	unlock, err := s.locker.TryLock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.ensureProfile(ctx, userID); err != nil {
		return nil, err
	}

	res, err := s.aggregator.Aggregate(ctx, raw, s.now())
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode aggregate: %w", err)
	}
	if err := s.bucket.Upload(ctx, gcp.UserKey(userID, AggregateObject), body); err != nil {
		return nil, fmt.Errorf("upload aggregate: %w", err)
	}
	if err := s.dataRepo.Upsert(dbctx.Context{Ctx: ctx}, userID, types.DataTypeActivityAggregate, string(body)); err != nil {
		return nil, fmt.Errorf("store aggregate: %w", err)
	}

	s.log.Info("Activity aggregated",
		"user_id", userID,
		"searches", res.RawCounts.Searches,
		"directions", res.RawCounts.Directions,
		"views", res.RawCounts.Views,
	)
	return res, nil
}

func (s *insightsService) Synthesize(ctx context.Context, userID string) (*profile.Synthesis, error) {
	unlock, err := s.locker.TryLock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.ensureProfile(ctx, userID); err != nil {
		return nil, err
	}

	row, err := s.dataRepo.Get(dbctx.Context{Ctx: ctx}, userID, types.DataTypeActivityAggregate)
	if err != nil {
		return nil, fmt.Errorf("load aggregate: %w", err)
	}
	if row == nil {
		return nil, &profile.RedirectError{State: profile.StateNoTiles, To: profile.RouteUpload}
	}
	var agg activity.Result
	if err := json.Unmarshal([]byte(row.Content), &agg); err != nil {
		return nil, fmt.Errorf("decode aggregate: %w", err)
	}

	out, err := s.synthesizer.Run(ctx, userID, &agg, &artifactStore{svc: s})
	if err != nil {
		s.log.Warn("Synthesis failed", "user_id", userID, "error", err)
		return nil, err
	}
	s.log.Info("Synthesis stored", "user_id", userID, "report_chars", len(out.Report))
	return out, nil
}

func (s *insightsService) GetTiles(ctx context.Context, userID string) (*TilesView, error) {
	p, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	state := profile.StateOf(p)
	if state == profile.StateNoTiles {
		return nil, &profile.RedirectError{State: state, To: profile.RouteUpload}
	}
	tiles, err := p.Tiles()
	if err != nil {
		return nil, err
	}
	return &TilesView{Tiles: tiles, State: state}, nil
}

func (s *insightsService) ConfirmTiles(ctx context.Context, userID string, selections profile.Selections) (*types.UserProfile, error) {
	unlock, err := s.locker.TryLock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.HasTiles() {
		return nil, &profile.RedirectError{State: profile.StateNoTiles, To: profile.RouteUpload}
	}
	tiles, err := p.Tiles()
	if err != nil {
		return nil, err
	}
	final, err := profile.ApplySelections(tiles, selections)
	if err != nil {
		return nil, err
	}
	tilesJSON, err := final.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode tiles: %w", err)
	}

	if err := s.bucket.Upload(ctx, gcp.UserKey(userID, TilesObject), tilesJSON); err != nil {
		return nil, fmt.Errorf("upload tiles: %w", err)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.dataRepo.Upsert(dbc, userID, types.DataTypePersonalityTiles, string(tilesJSON)); err != nil {
			return err
		}
		return s.profileRepo.SetConfirmedTiles(dbc, userID, tilesJSON)
	})
	if err != nil {
		return nil, fmt.Errorf("store confirmed tiles: %w", err)
	}

	s.log.Info("Tiles confirmed", "user_id", userID)
	return s.profileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
}

func (s *insightsService) GetInsights(ctx context.Context, userID string) (*InsightsView, error) {
	p, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := (profile.Gate{}).Require(p); err != nil {
		return nil, err
	}
	tiles, err := p.Tiles()
	if err != nil {
		return nil, err
	}
	report, err := s.loadReport(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &InsightsView{Report: report, Tiles: tiles}, nil
}

// loadReport prefers the user_data row and falls back to the blob.
func (s *insightsService) loadReport(ctx context.Context, userID string) (string, error) {
	row, err := s.dataRepo.Get(dbctx.Context{Ctx: ctx}, userID, types.DataTypePersonalityReport)
	if err != nil {
		return "", fmt.Errorf("load report: %w", err)
	}
	if row != nil {
		return row.Content, nil
	}
	body, err := s.bucket.Download(ctx, gcp.UserKey(userID, ReportObject))
	if errors.Is(err, gcp.ErrObjectNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("download report: %w", err)
	}
	return string(body), nil
}

func (s *insightsService) CompleteOnboarding(ctx context.Context, userID string) (*types.UserProfile, error) {
	if _, err := s.ensureProfile(ctx, userID); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.profileRepo.SetOnboardingCompleted(dbc, userID, true); err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}
	return s.profileRepo.GetByUserID(dbc, userID)
}

func (s *insightsService) Reset(ctx context.Context, userID string) error {
	unlock, err := s.locker.TryLock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.ensureProfile(ctx, userID); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.profileRepo.ResetInsights(dbc, userID); err != nil {
			return err
		}
		return s.dataRepo.DeleteByUser(dbc, userID)
	})
	if err != nil {
		return fmt.Errorf("reset insights: %w", err)
	}
	if err := s.bucket.DeletePrefix(ctx, userID+"/"); err != nil {
		// Rows are already cleared; leftover blobs are overwritten on the next run.
		s.log.Warn("Blob cleanup failed", "user_id", userID, "error", err)
	}
	s.log.Info("Insights reset", "user_id", userID)
	return nil
}

func (s *insightsService) ensureProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	p, err := s.profileRepo.GetOrCreate(dbctx.Context{Ctx: ctx}, &types.UserProfile{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// artifactStore writes both blobs, then both user_data rows and the profile
// tiles in a single transaction.
type artifactStore struct {
	svc *insightsService
}

func (a *artifactStore) SaveSynthesis(ctx context.Context, userID string, out *profile.Synthesis) error {
	s := a.svc
	tilesJSON, err := out.Tiles.Encode()
	if err != nil {
		return fmt.Errorf("encode tiles: %w", err)
	}
	if err := s.bucket.Upload(ctx, gcp.UserKey(userID, ReportObject), []byte(out.Report)); err != nil {
		return fmt.Errorf("upload report: %w", err)
	}
	if err := s.bucket.Upload(ctx, gcp.UserKey(userID, TilesObject), tilesJSON); err != nil {
		return fmt.Errorf("upload tiles: %w", err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.dataRepo.Upsert(dbc, userID, types.DataTypePersonalityReport, out.Report); err != nil {
			return err
		}
		if err := s.dataRepo.Upsert(dbc, userID, types.DataTypePersonalityTiles, string(tilesJSON)); err != nil {
			return err
		}
		return s.profileRepo.SetGeneratedTiles(dbc, userID, tilesJSON)
	})
}
