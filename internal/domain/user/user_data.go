package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DataType tags large per-user text artifacts.
type DataType string

const (
	DataTypePersonalityReport DataType = "personality_report"
	DataTypePersonalityTiles  DataType = "personality_tiles"
	DataTypeActivityAggregate DataType = "activity_aggregate"
)

// UserData holds one large text artifact per (user, data type).
type UserData struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string    `gorm:"not null;column:user_id;uniqueIndex:idx_user_data_user_type" json:"user_id"`
	DataType DataType  `gorm:"not null;column:data_type;uniqueIndex:idx_user_data_user_type" json:"data_type"`
	Content  string    `gorm:"not null;column:content;type:text" json:"content"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserData) TableName() string { return "user_data" }

func (d *UserData) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
