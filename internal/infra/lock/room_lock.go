// Package lock serializes booking attempts per room across service instances with Redis.
package lock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "room-booking:lock:"
	defaultTTL       = 10 * time.Second
)

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseFunc releases a held lock
type ReleaseFunc func(ctx context.Context) error

// RoomLocker holds short-lived per-room locks in Redis (SET NX PX + token-checked release)
type RoomLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRoomLocker creates a locker. A non-positive ttl falls back to 10s.
func NewRoomLocker(client redis.UniversalClient, ttl time.Duration) *RoomLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RoomLocker{
		client: client,
		ttl:    ttl,
		prefix: defaultKeyPrefix,
	}
}

// Acquire takes the lock for roomID without waiting.
// ErrLockBusy means another request holds it; the caller reports a conflict instead of queueing.
func (l *RoomLocker) Acquire(ctx context.Context, roomID int64) (ReleaseFunc, error) {
	key := l.key(roomID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: room=%d: %w", ErrLockUnavailable, roomID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: room=%d", ErrLockBusy, roomID)
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("%w: release room=%d: %w", ErrLockUnavailable, roomID, err)
		}
		return nil
	}

	return release, nil
}

func (l *RoomLocker) key(roomID int64) string {
	return l.prefix + strconv.FormatInt(roomID, 10)
}

// NopLocker is used when Redis is disabled; the database transaction alone guards the insert
type NopLocker struct{}

// Acquire always succeeds
func (NopLocker) Acquire(context.Context, int64) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}
