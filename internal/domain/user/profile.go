package user

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/insights"
)

// UserProfile is the per-user aggregate state. UserID is the identity
// provider's subject and is never interpreted.
type UserProfile struct {
	UserID      string `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email       string `gorm:"column:email" json:"email"`
	DisplayName string `gorm:"column:display_name" json:"display_name"`
	AvatarURL   string `gorm:"column:avatar_url" json:"avatar_url"`

	PersonalityTiles datatypes.JSON `gorm:"column:personality_tiles" json:"personality_tiles,omitempty"`

	PreferenceChosen       bool `gorm:"not null;default:false;column:preference_chosen" json:"preference_chosen"`
	HasPersonalityInsights bool `gorm:"not null;default:false;column:has_personality_insights" json:"has_personality_insights"`
	OnboardingCompleted    bool `gorm:"not null;default:false;column:onboarding_completed" json:"onboarding_completed"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserProfile) TableName() string { return "user_profile" }

// HasTiles reports whether a tile set has been stored.
func (p *UserProfile) HasTiles() bool {
	if p == nil || len(p.PersonalityTiles) == 0 {
		return false
	}
	s := string(p.PersonalityTiles)
	return s != "null" && s != "{}"
}

// Tiles decodes the stored tile set, or returns nil when none is stored.
func (p *UserProfile) Tiles() (*insights.PersonalityTiles, error) {
	if !p.HasTiles() {
		return nil, nil
	}
	var tiles insights.PersonalityTiles
	if err := json.Unmarshal(p.PersonalityTiles, &tiles); err != nil {
		return nil, fmt.Errorf("decode personality_tiles: %w", err)
	}
	return &tiles, nil
}
