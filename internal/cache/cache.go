// Package cache keeps rendered resume documents in redis. Resumes have no
// update path, so an entry stays valid until the resume is deleted.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Format identifies one rendered representation of a resume.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

var formats = []Format{FormatPDF, FormatPNG}

// DocumentCache stores rendered documents by resume id and format.
type DocumentCache interface {
	Get(ctx context.Context, id string, format Format) ([]byte, bool, error)
	Set(ctx context.Context, id string, format Format, data []byte) error
	Delete(ctx context.Context, id string) error
}

func key(id string, format Format) string {
	return fmt.Sprintf("resume:%s:%s", format, id)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to addr and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisCache returns a DocumentCache backed by client. A non-positive ttl
// keeps entries until they are deleted.
func NewRedisCache(client *redis.Client, ttl time.Duration) DocumentCache {
	if ttl < 0 {
		ttl = 0
	}
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, id string, format Format) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key(id, format)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *redisCache) Set(ctx context.Context, id string, format Format, data []byte) error {
	return c.client.Set(ctx, key(id, format), data, c.ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, id string) error {
	keys := make([]string, 0, len(formats))
	for _, f := range formats {
		keys = append(keys, key(id, f))
	}
	return c.client.Del(ctx, keys...).Err()
}

type nopCache struct{}

// NewNopCache returns a cache that never stores anything.
func NewNopCache() DocumentCache { return nopCache{} }

func (nopCache) Get(context.Context, string, Format) ([]byte, bool, error) { return nil, false, nil }
func (nopCache) Set(context.Context, string, Format, []byte) error         { return nil }
func (nopCache) Delete(context.Context, string) error                      { return nil }
