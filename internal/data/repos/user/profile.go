package user

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/dbctx"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

type UserProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID string) (*types.UserProfile, error)
	GetOrCreate(dbc dbctx.Context, seed *types.UserProfile) (*types.UserProfile, error)
	// SetGeneratedTiles stores freshly synthesized tiles and returns the
	// profile to the pending-review state.
	SetGeneratedTiles(dbc dbctx.Context, userID string, tilesJSON []byte) error
	// SetConfirmedTiles stores the user's reduced tiles and marks them confirmed.
	SetConfirmedTiles(dbc dbctx.Context, userID string, tilesJSON []byte) error
	SetOnboardingCompleted(dbc dbctx.Context, userID string, completed bool) error
	// ResetInsights clears tiles and every profile-derived flag together.
	ResetInsights(dbc dbctx.Context, userID string) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	repoLog := baseLog.With("repo", "UserProfileRepo")
	return &userProfileRepo{db: db, log: repoLog}
}

func (r *userProfileRepo) GetByUserID(dbc dbctx.Context, userID string) (*types.UserProfile, error) {
	var out types.UserProfile
	err := dbc.Or(r.db).
		Where("user_id = ?", userID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userProfileRepo) GetOrCreate(dbc dbctx.Context, seed *types.UserProfile) (*types.UserProfile, error) {
	if seed == nil || seed.UserID == "" {
		return nil, errors.New("user id required")
	}
	if err := dbc.Or(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(seed).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, seed.UserID)
}

func (r *userProfileRepo) SetGeneratedTiles(dbc dbctx.Context, userID string, tilesJSON []byte) error {
	return r.update(dbc, userID, map[string]any{
		"personality_tiles":        datatypes.JSON(tilesJSON),
		"preference_chosen":        false,
		"has_personality_insights": false,
	})
}

func (r *userProfileRepo) SetConfirmedTiles(dbc dbctx.Context, userID string, tilesJSON []byte) error {
	return r.update(dbc, userID, map[string]any{
		"personality_tiles":        datatypes.JSON(tilesJSON),
		"preference_chosen":        true,
		"has_personality_insights": true,
	})
}

func (r *userProfileRepo) SetOnboardingCompleted(dbc dbctx.Context, userID string, completed bool) error {
	return r.update(dbc, userID, map[string]any{
		"onboarding_completed": completed,
	})
}

func (r *userProfileRepo) ResetInsights(dbc dbctx.Context, userID string) error {
	return r.update(dbc, userID, map[string]any{
		"personality_tiles":        gorm.Expr("NULL"),
		"preference_chosen":        false,
		"has_personality_insights": false,
		"onboarding_completed":     false,
	})
}

func (r *userProfileRepo) update(dbc dbctx.Context, userID string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := dbc.Or(r.db).
		Model(&types.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
