// Package postgresql provides the PostgreSQL persistence implementation for users, bots, flows and templates.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/persistence/sqlbase"
)

const uniqueViolation pq.ErrorCode = "23505"

// Dialect is the PostgreSQL dialect used by the shared repositories.
var Dialect = sqlbase.Dialect{
	Name: "postgres",
	IsUniqueViolation: func(err error) bool {
		var pqErr *pq.Error

		return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
	},
}

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	userRepo     *sqlbase.UserRepository
	botRepo      *sqlbase.BotRepository
	flowRepo     *sqlbase.FlowRepository
	templateRepo *sqlbase.TemplateRepository
}

// NewPersistence creates a new PostgreSQL persistence layer and migrates the schema.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

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
