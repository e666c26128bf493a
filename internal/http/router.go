package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/handlers"
	httpMW "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/http/middleware"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	ProfileHandler  *httpH.ProfileHandler
	ActivityHandler *httpH.ActivityHandler
	ChatHandler     *httpH.ChatHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Profile
		if cfg.ProfileHandler != nil {
			protected.GET("/profile", cfg.ProfileHandler.GetProfile)
			protected.POST("/profile/synthesize", cfg.ProfileHandler.Synthesize)
			protected.GET("/profile/tiles", cfg.ProfileHandler.GetTiles)
			protected.POST("/profile/tiles/confirm", cfg.ProfileHandler.ConfirmTiles)
			protected.GET("/profile/insights", cfg.ProfileHandler.GetInsights)
			protected.DELETE("/profile/insights", cfg.ProfileHandler.ResetInsights)
			protected.POST("/profile/onboarding/complete", cfg.ProfileHandler.CompleteOnboarding)
		}

		// Activity
		if cfg.ActivityHandler != nil {
			protected.POST("/activity/upload", cfg.ActivityHandler.Upload)
		}

		// Chat
		if cfg.ChatHandler != nil {
			protected.POST("/chat", cfg.ChatHandler.Reply)
		}
	}

	return r
}
