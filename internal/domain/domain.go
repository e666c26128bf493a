package domain

import (
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/insights"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/user"
)

type UserProfile = user.UserProfile
type UserData = user.UserData
type DataType = user.DataType

const (
	DataTypePersonalityReport = user.DataTypePersonalityReport
	DataTypePersonalityTiles  = user.DataTypePersonalityTiles
	DataTypeActivityAggregate = user.DataTypeActivityAggregate
)

type Category = insights.Category
type PersonalityTiles = insights.PersonalityTiles

var Categories = insights.Categories

func NewPersonalityTiles() *PersonalityTiles { return insights.NewPersonalityTiles() }
