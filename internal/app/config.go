package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/db"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/envutil"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

const (
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"
)

type Config struct {
	Env         string
	Port        string
	ServiceName string
	CORSOrigins []string

	JWTSecretKey string

	DB db.Config

	LLMProvider     string
	LLMStageTimeout time.Duration

	GoogleMapsAPIKey   string
	PlaceLookupTimeout time.Duration
	EnrichConcurrency  int

	RedisAddr    string
	UserLockTTL  time.Duration
	MaxUploadMiB int
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Env:         envutil.String("APP_ENV", "development"),
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "cityscout-backend"),
		CORSOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),

		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres"),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "cityscout"),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: envutil.String("SQLITE_PATH", "cityscout.db"),
		},

		LLMProvider:     strings.ToLower(envutil.String("LLM_PROVIDER", LLMProviderOpenAI)),
		LLMStageTimeout: envutil.Seconds("LLM_STAGE_TIMEOUT_SECONDS", 120*time.Second),

		GoogleMapsAPIKey:   envutil.String("GOOGLE_MAPS_API_KEY", ""),
		PlaceLookupTimeout: envutil.Seconds("PLACE_LOOKUP_TIMEOUT_SECONDS", 10*time.Second),
		EnrichConcurrency:  envutil.Int("ENRICH_CONCURRENCY", activity.DefaultEnrichConcurrency),

		RedisAddr:    envutil.String("REDIS_ADDR", ""),
		UserLockTTL:  envutil.Seconds("USER_LOCK_TTL_SECONDS", 5*time.Minute),
		MaxUploadMiB: envutil.Int("MAX_UPLOAD_MIB", 64),
	}
	if cfg.GoogleMapsAPIKey == "" {
		log.Warn("GOOGLE_MAPS_API_KEY is not set; place types resolve to null")
	}
	return cfg
}

func (c Config) validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	switch c.LLMProvider {
	case LLMProviderOpenAI, LLMProviderGemini:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
