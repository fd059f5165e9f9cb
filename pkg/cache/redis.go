package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/teleboot/teleboot/pkg/models"
)

const (
	keyPrefix  = "teleboot:templates:"
	listKey    = keyPrefix + "public"
	defaultTTL = 10 * time.Minute
)

// RedisTemplateCache keeps templates as JSON documents in Redis.
type RedisTemplateCache struct {
	client redis.UniversalClient
	logger *slog.Logger
	ttl    time.Duration
}

// NewRedisTemplateCache connects to the Redis server at url (redis://host:port/db).
func NewRedisTemplateCache(ctx context.Context, logger *slog.Logger, url string, ttl time.Duration) (*RedisTemplateCache, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.InfoContext(ctx, "Connected to Redis", "addr", options.Addr, "db", options.DB)

	return NewRedisTemplateCacheWithClient(logger, client, ttl), nil
}

// NewRedisTemplateCacheWithClient wraps an existing client. A zero ttl uses the default.
func NewRedisTemplateCacheWithClient(logger *slog.Logger, client redis.UniversalClient, ttl time.Duration) *RedisTemplateCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &RedisTemplateCache{
		client: client,
		logger: logger.With("module", "template-cache"),
		ttl:    ttl,
	}
}

func (c *RedisTemplateCache) GetList(ctx context.Context) ([]*models.Template, bool, error) {
	var templates []*models.Template

	ok, err := c.get(ctx, listKey, &templates)
	if err != nil || !ok {
		return nil, ok, err
	}

	return templates, true, nil
}

func (c *RedisTemplateCache) SetList(ctx context.Context, templates []*models.Template) error {
	return c.set(ctx, listKey, templates)
}

func (c *RedisTemplateCache) Get(ctx context.Context, id string) (*models.Template, bool, error) {
	var template models.Template

	ok, err := c.get(ctx, templateKey(id), &template)
	if err != nil || !ok {
		return nil, ok, err
	}

	return &template, true, nil
}

func (c *RedisTemplateCache) Set(ctx context.Context, template *models.Template) error {
	return c.set(ctx, templateKey(template.ID), template)
}

func (c *RedisTemplateCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0)

	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	err := iter.Err()
	if err != nil {
		return fmt.Errorf("failed to scan template keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	err = c.client.Del(ctx, keys...).Err()
	if err != nil {
		return fmt.Errorf("failed to delete template keys: %w", err)
	}

	c.logger.DebugContext(ctx, "Template cache invalidated", "keys", len(keys))

	return nil
}

func (c *RedisTemplateCache) Close() error {
	return c.client.Close()
}

func (c *RedisTemplateCache) get(ctx context.Context, key string, target any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	err = json.Unmarshal(payload, target)
	if err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return true, nil
}

func (c *RedisTemplateCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	err = c.client.Set(ctx, key, payload, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

func templateKey(id string) string {
	return keyPrefix + "id:" + id
}
