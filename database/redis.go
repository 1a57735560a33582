package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// updatesChannel carries change broadcasts between processes sharing the
// same Redis database.
const updatesChannel = "sage:updates"

// RedisKV stores keys in Redis. Every Set publishes the key on a pub/sub
// channel so other processes re-read and re-render, mirroring the browser
// storage event between open tabs.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to Redis and verifies the connection.
func NewRedisKV(redisURL string) (*RedisKV, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisKV{client: client}, nil
}

// Get retrieves the value stored under key.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores value under key and broadcasts the change. The publish is
// fire-and-forget; a failed broadcast never fails the write.
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return err
	}
	r.client.Publish(ctx, updatesChannel, key)
	return nil
}

// Delete removes keys.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Subscribe listens for change broadcasts from other processes until ctx
// is cancelled.
func (r *RedisKV) Subscribe(ctx context.Context, handler func(key string)) error {
	sub := r.client.Subscribe(ctx, updatesChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handler(msg.Payload)
		}
	}
}

// Close closes the Redis connection.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
