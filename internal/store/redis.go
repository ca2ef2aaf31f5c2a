package store

import (
	"github.com/go-redis/redis"
)

// RedisBackend keeps the keyspace in Redis under a common prefix, so one
// instance can be shared with other tools without key clashes.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(addr, prefix string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (b *RedisBackend) Get(key string) ([]byte, error) {
	raw, err := b.client.Get(b.prefix + key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (b *RedisBackend) Put(key string, value []byte) error {
	return b.client.Set(b.prefix+key, value, 0).Err()
}

func (b *RedisBackend) Delete(key string) error {
	return b.client.Del(b.prefix + key).Err()
}

func (b *RedisBackend) Keys() ([]string, error) {
	raw, err := b.client.Keys(b.prefix + "*").Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, k[len(b.prefix):])
	}
	return keys, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
