// Package persistence provides the storage abstraction layer for users, bots, flows and templates.
package persistence

import (
	"context"

	"github.com/teleboot/teleboot/pkg/models"
)

// Persistence is the storage capability consumed by the services. A single
// instance owns a connection pool and is safe for concurrent use.
type Persistence interface {
	UserRepository() UserRepository
	BotRepository() BotRepository
	FlowRepository() FlowRepository
	TemplateRepository() TemplateRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// UserRepository stores user accounts.
type UserRepository interface {
	// Create inserts the user and sets its generated ID. Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// BotRepository stores bots.
type BotRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.Bot, error)
	GetByID(ctx context.Context, id string) (*models.Bot, error)
	Create(ctx context.Context, bot *models.Bot) error
	Update(ctx context.Context, bot *models.Bot) error
	// Delete removes the bot; its flows and sessions are removed by the store.
	Delete(ctx context.Context, id string) error
}

// FlowRepository stores flows in their encoded form.
type FlowRepository interface {
	// ListByBot returns the bot's flows, newest first.
	ListByBot(ctx context.Context, botID string) ([]*models.FlowRecord, error)
	GetByID(ctx context.Context, id string) (*models.FlowRecord, error)
	// Create inserts the flow. When the flow is main, other flows of the bot are demoted atomically.
	Create(ctx context.Context, flow *models.FlowRecord) error
	// Update overwrites the flow. When the flow is main, other flows of the bot are demoted atomically.
	Update(ctx context.Context, flow *models.FlowRecord) error
	Delete(ctx context.Context, id string) error
}

// TemplateRepository stores templates in their encoded form.
type TemplateRepository interface {
	// ListPublic returns public templates, newest first.
	ListPublic(ctx context.Context) ([]*models.TemplateRecord, error)
	GetPublicByID(ctx context.Context, id string) (*models.TemplateRecord, error)
	Count(ctx context.Context) (int, error)
	// SeedIfEmpty inserts the templates only when none exist, in a single
	// transaction. It reports whether anything was inserted.
	SeedIfEmpty(ctx context.Context, templates []*models.TemplateRecord) (bool, error)
}
