package app

import (
	"gorm.io/gorm"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/profile"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/services"
)

type Services struct {
	Insights services.InsightsService
	Chat     services.ChatService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	// The place-type cache lives for the whole process and is shared by every request.
	resolver := activity.NewResolver(log, clients.Places, activity.NewOtterPlaceTypeCache(), cfg.PlaceLookupTimeout)
	aggregator := activity.NewAggregator(log, resolver, cfg.EnrichConcurrency)
	synthesizer := profile.NewSynthesizer(log, clients.Generator, cfg.LLMStageTimeout)

	return Services{
		Insights: services.NewInsightsService(
			db,
			log,
			repos.UserProfile,
			repos.UserData,
			clients.Bucket,
			clients.Locker,
			aggregator,
			synthesizer,
		),
		Chat: services.NewChatService(log, repos.UserProfile, clients.Generator, cfg.LLMStageTimeout),
	}
}
