package rediskv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Storage хранит значения как обычные строки Redis без TTL:
// это аналог localStorage, данные живут до явного удаления записи.
type Storage struct {
	c *redis.Client
}

func New(addr string) *Storage {
	return &Storage{
		c: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := s.c.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "redis get")
	}
	return val, true, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	if err := s.c.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (s *Storage) Close() error {
	return s.c.Close()
}
