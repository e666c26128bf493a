package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisLocker pings addr and returns a locker backed by SET NX PX. The TTL
// bounds how long a crashed holder can block the user.
func NewRedisLocker(log *logger.Logger, addr string, ttl time.Duration) (UserLocker, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisLocker(log, rdb, ttl), nil
}

func newRedisLocker(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) *redisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisLocker{
		log:    log.With("service", "RedisUserLocker"),
		rdb:    rdb,
		prefix: "cityscout:user-lock:",
		ttl:    ttl,
	}
}

func (l *redisLocker) TryLock(ctx context.Context, userID string) (func(), error) {
	key := l.prefix + userID
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire user lock: %w", err)
	}
	if !ok {
		return nil, ErrUserBusy
	}
	return func() {
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
			l.log.Warn("Failed to release user lock", "user_id", userID, "error", err)
		}
	}, nil
}
