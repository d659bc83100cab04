package storage

import (
	"fmt"

	"gopkg.in/redis.v5"
)

// Redis stores values as plain redis strings without expiry
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the redis server at addr and selects db
func NewRedis(addr string, db int) (*Redis, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(key string) ([]byte, error) {
	value, err := r.client.Get(key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(key string, value []byte) error {
	if err := r.client.Set(key, value, 0).Err(); err != nil {
		return fmt.Errorf("write key %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
