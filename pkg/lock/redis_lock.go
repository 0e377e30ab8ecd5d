package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLock is a best-effort distributed lock used to keep scheduled sweeps
// from running concurrently across instances. It is advisory: the sweeps
// themselves are written to be safe if the lock is ever lost.
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

// Acquire tries to take the named lock for ttl. Returns false if another
// holder already has it.
func (l *RedisLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, "lock:"+name, time.Now().UnixNano(), ttl).Result()
}

// Release drops the named lock.
func (l *RedisLock) Release(ctx context.Context, name string) error {
	return l.client.Del(ctx, "lock:"+name).Err()
}
