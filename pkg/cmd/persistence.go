// Package cmd builds the runtime dependencies shared by the teleboot commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/persistence/postgresql"
	"github.com/teleboot/teleboot/pkg/persistence/sqlite"
)

const (
	providerPostgres = "postgres"
	providerSQLite   = "sqlite"
)

var postgresSchemes = []string{"postgres", "postgresql"}

// NewPersistence opens and migrates the store named by databaseURL.
// postgres:// and postgresql:// URLs select PostgreSQL; sqlite:// URLs and
// bare paths select SQLite.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	switch parsePersistenceProvider(databaseURL) {
	case providerPostgres:
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return sqlite.NewPersistence(ctx, logger, databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return providerSQLite
	}

	for _, supported := range postgresSchemes {
		if strings.EqualFold(scheme, supported) {
			return providerPostgres
		}
	}

	return providerSQLite
}
