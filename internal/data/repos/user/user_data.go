package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/dbctx"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

type UserDataRepo interface {
	Get(dbc dbctx.Context, userID string, dataType types.DataType) (*types.UserData, error)
	// Upsert updates the (user, data type) row when present, else inserts it.
	Upsert(dbc dbctx.Context, userID string, dataType types.DataType, content string) error
	DeleteByUser(dbc dbctx.Context, userID string, dataTypes ...types.DataType) error
}

type userDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserDataRepo(db *gorm.DB, baseLog *logger.Logger) UserDataRepo {
	repoLog := baseLog.With("repo", "UserDataRepo")
	return &userDataRepo{db: db, log: repoLog}
}

func (r *userDataRepo) Get(dbc dbctx.Context, userID string, dataType types.DataType) (*types.UserData, error) {
	var out types.UserData
	err := dbc.Or(r.db).
		Where("user_id = ? AND data_type = ?", userID, dataType).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userDataRepo) Upsert(dbc dbctx.Context, userID string, dataType types.DataType, content string) error {
	now := time.Now().UTC()
	row := &types.UserData{
		UserID:    userID,
		DataType:  dataType,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return dbc.Or(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "data_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
		}).
		Create(row).Error
}

func (r *userDataRepo) DeleteByUser(dbc dbctx.Context, userID string, dataTypes ...types.DataType) error {
	q := dbc.Or(r.db).Where("user_id = ?", userID)
	if len(dataTypes) > 0 {
		q = q.Where("data_type IN ?", dataTypes)
	}
	return q.Delete(&types.UserData{}).Error
}
