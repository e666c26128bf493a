package repos

import (
	"gorm.io/gorm"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/repos/user"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

type UserProfileRepo = user.UserProfileRepo
type UserDataRepo = user.UserDataRepo

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return user.NewUserProfileRepo(db, baseLog)
}
func NewUserDataRepo(db *gorm.DB, baseLog *logger.Logger) UserDataRepo {
	return user.NewUserDataRepo(db, baseLog)
}
