package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomLocker_Key(t *testing.T) {
	l := NewRoomLocker(nil, 0)

	assert.Equal(t, "room-booking:lock:42", l.key(42))
	assert.Equal(t, defaultTTL, l.ttl)
}

func TestRoomLocker_UnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	l := NewRoomLocker(client, time.Second)

	_, err := l.Acquire(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLockUnavailable)
}

func TestNopLocker(t *testing.T) {
	release, err := NopLocker{}.Acquire(context.Background(), 1)
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
