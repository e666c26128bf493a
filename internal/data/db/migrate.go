package db

import (
	"gorm.io/gorm"

	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.UserProfile{},
		&types.UserData{},
	)
}
