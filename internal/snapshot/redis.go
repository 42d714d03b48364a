package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wordhunt:room:"

// Redis stores snapshots in a redis instance with a per-key TTL
type Redis struct {
	client *redis.Client
}

// NewRedis creates a redis-backed store from an address like "host:port"
func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Put implements Store
func (r *Redis) Put(ctx context.Context, code string, snap *RoomSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+code, data, ttl).Err()
}

// Get implements Store
func (r *Redis) Get(ctx context.Context, code string) (*RoomSnapshot, error) {
	data, err := r.client.Get(ctx, keyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap RoomSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete implements Store
func (r *Redis) Delete(ctx context.Context, code string) error {
	return r.client.Del(ctx, keyPrefix+code).Err()
}

// Close releases the underlying connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
