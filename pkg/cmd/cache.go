package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teleboot/teleboot/pkg/cache"
)

// TemplateCacheTTL bounds how long a cached template list may be served.
const TemplateCacheTTL = 10 * time.Minute

// NewTemplateCache connects to Redis when redisURL is set. Without it
// templates are always read from storage.
func NewTemplateCache(ctx context.Context, logger *slog.Logger, redisURL string) (cache.TemplateCache, error) {
	if redisURL == "" {
		return cache.NopTemplateCache{}, nil
	}

	templateCache, err := cache.NewRedisTemplateCache(ctx, logger, redisURL, TemplateCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect template cache: %w", err)
	}

	return templateCache, nil
}
