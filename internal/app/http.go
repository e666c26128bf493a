package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http"
	httpH "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/handlers"
	httpMW "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/middleware"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Profile  *httpH.ProfileHandler
	Activity *httpH.ActivityHandler
	Chat     *httpH.ChatHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	dbCheck := httpH.HealthCheck{
		Name:  "database",
		Ping: func(ctx context.Context) error { return pingDB(ctx, db) },
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(dbCheck),
		Profile:  httpH.NewProfileHandler(log, services.Insights),
		Activity: httpH.NewActivityHandler(log, services.Insights, int64(cfg.MaxUploadMiB)<<20),
		Chat:     httpH.NewChatHandler(services.Chat),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		ServiceName:     cfg.ServiceName,
		CORSOrigins:     cfg.CORSOrigins,
		AuthMiddleware:  middleware.Auth,
		ProfileHandler:  handlers.Profile,
		ActivityHandler: handlers.Activity,
		ChatHandler:     handlers.Chat,
		HealthHandler:   handlers.Health,
	})
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
