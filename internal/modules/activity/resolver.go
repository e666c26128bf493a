package activity

import (
	"context"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/observability"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

// PlaceLookup finds the category tags of the best match for a free-text
// query. found is false when nothing matched.
type PlaceLookup interface {
	FindPlaceTypes(ctx context.Context, query string) (types []string, found bool, err error)
}

// NoMatchLookup reports no match for every query. It stands in when no
// place service is configured.
type NoMatchLookup struct{}

func (NoMatchLookup) FindPlaceTypes(context.Context, string) ([]string, bool, error) {
	return nil, false, nil
}

// PlaceTypeCache memoizes lookups for the life of the process. It is keyed
// by place text only, so it is shared across users.
type PlaceTypeCache interface {
	Get(key string) (PlaceType, bool)
	Put(key string, value PlaceType)
}

type otterPlaceTypeCache struct {
	cache *otter.Cache[string, PlaceType]
}

// NewOtterPlaceTypeCache returns an unbounded in-memory cache.
func NewOtterPlaceTypeCache() PlaceTypeCache {
	return &otterPlaceTypeCache{
		cache: otter.Must(&otter.Options[string, PlaceType]{
			InitialCapacity: 256,
		}),
	}
}

func (c *otterPlaceTypeCache) Get(key string) (PlaceType, bool) {
	return c.cache.GetIfPresent(key)
}

func (c *otterPlaceTypeCache) Put(key string, value PlaceType) {
	c.cache.Set(key, value)
}

type Resolver struct {
	log     *logger.Logger
	lookup  PlaceLookup
	cache   PlaceTypeCache
	timeout time.Duration
	group   singleflight.Group
}

func NewResolver(log *logger.Logger, lookup PlaceLookup, cache PlaceTypeCache, timeout time.Duration) *Resolver {
	if cache == nil {
		cache = NewOtterPlaceTypeCache()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		log:     log.With("service", "PlaceTypeResolver"),
		lookup:  lookup,
		cache:   cache,
		timeout: timeout,
	}
}

// Resolve returns the memoized place type for text, issuing at most one
// lookup per distinct text. Failures come back as error-valued PlaceTypes
// and are memoized like any other outcome.
func (r *Resolver) Resolve(ctx context.Context, text string) PlaceType {
	if strings.TrimSpace(text) == "" {
		return NoMatch
	}
	if v, ok := r.cache.Get(text); ok {
		return v
	}
	v, _, _ := r.group.Do(text, func() (any, error) {
		if v, ok := r.cache.Get(text); ok {
			return v, nil
		}
		pt := r.fetch(ctx, text)
		r.cache.Put(text, pt)
		return pt, nil
	})
	return v.(PlaceType)
}

// fetch detaches from the caller's cancellation because waiters on the same
// key share the result; the timeout still bounds it.
func (r *Resolver) fetch(ctx context.Context, text string) PlaceType {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	ctx, span := observability.StartSpan(ctx, "activity.resolve_place_type", attribute.String("place.query", text))

	if r.lookup == nil {
		observability.EndSpan(span, nil)
		return NoMatch
	}
	types, found, err := r.lookup.FindPlaceTypes(ctx, text)
	observability.EndSpan(span, err)
	switch {
	case err != nil:
		r.log.Warn("Place lookup failed", "query", text, "error", err)
		return PlaceTypeError(err)
	case !found:
		return NoMatch
	default:
		return PlaceTypes(types...)
	}
}
