package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// VersionStore keeps a monotonically increasing version per query topic.
type VersionStore interface {
	Bump(ctx context.Context, topic string) (int64, error)
	Get(ctx context.Context, topic string) (int64, error)
}

// MemoryVersions is a process-local VersionStore.
type MemoryVersions struct {
	mu       sync.Mutex
	versions map[string]int64
}

func NewMemoryVersions() *MemoryVersions {
	return &MemoryVersions{versions: make(map[string]int64)}
}

func (m *MemoryVersions) Bump(ctx context.Context, topic string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[topic]++
	return m.versions[topic], nil
}

func (m *MemoryVersions) Get(ctx context.Context, topic string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[topic], nil
}

// RedisVersions shares topic versions across API instances so an ETag issued
// by one instance is still valid on another.
type RedisVersions struct {
	client *redis.Client
	prefix string
}

func NewRedisVersions(client *redis.Client, prefix string) *RedisVersions {
	if prefix == "" {
		prefix = "qv:"
	}
	return &RedisVersions{client: client, prefix: prefix}
}

func (r *RedisVersions) Bump(ctx context.Context, topic string) (int64, error) {
	v, err := r.client.Incr(ctx, r.prefix+topic).Result()
	if err != nil {
		return 0, fmt.Errorf("bump %s: %w", topic, err)
	}
	return v, nil
}

func (r *RedisVersions) Get(ctx context.Context, topic string) (int64, error) {
	v, err := r.client.Get(ctx, r.prefix+topic).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", topic, err)
	}
	return v, nil
}
