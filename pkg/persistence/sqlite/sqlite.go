// Package sqlite provides the SQLite persistence implementation for users, bots, flows and templates.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/persistence/sqlbase"
)

// Dialect is the SQLite dialect used by the shared repositories.
var Dialect = sqlbase.Dialect{
	Name: "sqlite",
	IsUniqueViolation: func(err error) bool {
		var sqliteErr sqlite3.Error

		return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	},
}

// Persistence implements the persistence layer for SQLite.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	userRepo     *sqlbase.UserRepository
	botRepo      *sqlbase.BotRepository
	flowRepo     *sqlbase.FlowRepository
	templateRepo *sqlbase.TemplateRepository
}

// NewPersistence opens the SQLite database at path and migrates the schema.
// Foreign keys are enforced so bot deletion cascades to flows.
func NewPersistence(ctx context.Context, logger *slog.Logger, path string) (*Persistence, error) {
	database, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single connection serializes writers and keeps in-memory databases shared.
	database.SetMaxOpenConns(1)

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.InfoContext(ctx, "Database ready", "engine", Dialect.Name)

	return &Persistence{
		db:           database,
		logger:       logger,
		userRepo:     sqlbase.NewUserRepository(database, logger, Dialect),
		botRepo:      sqlbase.NewBotRepository(database, logger),
		flowRepo:     sqlbase.NewFlowRepository(database, logger),
		templateRepo: sqlbase.NewTemplateRepository(database, logger),
	}, nil
}

// DSN builds the driver data source name for path, enabling foreign keys.
// A "sqlite://" prefix is accepted and stripped.
func DSN(path string) string {
	path = strings.TrimPrefix(path, "sqlite://")

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}

	return path + separator + "_foreign_keys=on&_busy_timeout=5000"
}

// UserRepository returns the user repository.
func (p *Persistence) UserRepository() persistence.UserRepository {
	return p.userRepo
}

// BotRepository returns the bot repository.
func (p *Persistence) BotRepository() persistence.BotRepository {
	return p.botRepo
}

// FlowRepository returns the flow repository.
func (p *Persistence) FlowRepository() persistence.FlowRepository {
	return p.flowRepo
}

// TemplateRepository returns the template repository.
func (p *Persistence) TemplateRepository() persistence.TemplateRepository {
	return p.templateRepo
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
