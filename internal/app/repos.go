package app

import (
	"gorm.io/gorm"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/repos"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

type Repos struct {
	UserProfile repos.UserProfileRepo
	UserData    repos.UserDataRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		UserProfile: repos.NewUserProfileRepo(db, log),
		UserData:    repos.NewUserDataRepo(db, log),
	}
}
