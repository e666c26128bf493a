package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/profile"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/gcp"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/gemini"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/googlemaps"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/locks"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/openai"
)

type Clients struct {
	Bucket    gcp.BucketService
	Generator profile.TextGenerator
	Places    activity.PlaceLookup
	Locker    locks.UserLocker
}

type ClientInitStage string

const (
	ClientInitConfig  ClientInitStage = "config"
	ClientInitConnect ClientInitStage = "connect"
)

// ClientInitError reports which external client failed to start and whether
// the failure was a bad configuration or an unreachable backend.
type ClientInitError struct {
	Client string
	Stage  ClientInitStage
	Cause  error
}

func (e *ClientInitError) Error() string {
	return fmt.Sprintf("init %s client (%s): %v", e.Client, e.Stage, e.Cause)
}

func (e *ClientInitError) Unwrap() error { return e.Cause }

var (
	resolveObjectStorageConfig = gcp.ResolveObjectStorageConfigFromEnv
	newBucketService           = gcp.NewBucketServiceWithConfig
)

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := wireBucket(log)
	if err != nil {
		return Clients{}, err
	}

	gen, err := newTextGenerator(ctx, log, cfg)
	if err != nil {
		return Clients{}, &ClientInitError{Client: cfg.LLMProvider, Stage: ClientInitConfig, Cause: err}
	}

	var places activity.PlaceLookup = activity.NoMatchLookup{}
	if cfg.GoogleMapsAPIKey != "" {
		places = googlemaps.NewClient(cfg.GoogleMapsAPIKey, &http.Client{Timeout: cfg.PlaceLookupTimeout}, log)
	} else {
		log.Warn("GOOGLE_MAPS_API_KEY not set; place types resolve to null")
	}

	locker := locks.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		locker, err = locks.NewRedisLocker(log, cfg.RedisAddr, cfg.UserLockTTL)
		if err != nil {
			return Clients{}, &ClientInitError{Client: "redis", Stage: ClientInitConnect, Cause: err}
		}
	}

	return Clients{
		Bucket:    bucket,
		Generator: gen,
		Places:    places,
		Locker:    locker,
	}, nil
}

func wireBucket(log *logger.Logger) (gcp.BucketService, error) {
	storageCfg, err := resolveObjectStorageConfig()
	if err != nil {
		return nil, &ClientInitError{Client: "object storage", Stage: ClientInitConfig, Cause: err}
	}
	bucket, err := newBucketService(log, storageCfg)
	if err != nil {
		stage := ClientInitConnect
		var cfgErr *gcp.ObjectStorageConfigError
		if errors.As(err, &cfgErr) {
			stage = ClientInitConfig
		}
		return nil, &ClientInitError{Client: "object storage", Stage: stage, Cause: err}
	}
	return bucket, nil
}

func newTextGenerator(ctx context.Context, log *logger.Logger, cfg Config) (profile.TextGenerator, error) {
	switch cfg.LLMProvider {
	case LLMProviderGemini:
		return gemini.NewClient(ctx, log, gemini.ConfigFromEnv())
	default:
		return openai.NewClient(log, openai.ConfigFromEnv())
	}
}
