package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/teleboot/teleboot/pkg/eventbus"
	"github.com/teleboot/teleboot/pkg/events"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/otelhelper"
	"github.com/teleboot/teleboot/pkg/ownership"
	"github.com/teleboot/teleboot/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateBotInput holds the fields of a new bot.
type CreateBotInput struct {
	Name          string
	Description   *string
	TelegramToken *string
	IsActive      bool
}

// BotPatch holds the fields to change on a bot. Absent fields are kept.
type BotPatch struct {
	Name          models.Optional[string]
	Description   models.Optional[*string]
	TelegramToken models.Optional[*string]
	IsActive      models.Optional[bool]
}

// IsEmpty reports whether the patch changes nothing.
func (p BotPatch) IsEmpty() bool {
	return !p.Name.IsSet() && !p.Description.IsSet() && !p.TelegramToken.IsSet() && !p.IsActive.IsSet()
}

// Bot manages the caller's bots.
type Bot struct {
	persistence persistence.Persistence
	ownership   *ownership.Resolver
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewBot creates a new bot service. publisher may be nil.
func NewBot(p persistence.Persistence, publisher eventbus.EventPublisher, logger *slog.Logger) *Bot {
	return &Bot{
		persistence: p,
		ownership:   ownership.NewResolver(p),
		publisher:   publisher,
		tracer:      otelhelper.Tracer(tracerName),
		logger:      logger.With("module", "bot-service"),
	}
}

// ListBots returns the caller's bots, newest first.
func (b *Bot) ListBots(ctx context.Context, callerID int64) (bots []*models.Bot, err error) {
	ctx, span := startSpan(ctx, b.tracer, "bots.List", attribute.Int64(otelhelper.UserIDKey, callerID))
	defer func() { endSpan(span, err) }()

	bots, err = b.persistence.BotRepository().ListByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}

	return bots, nil
}

// GetBot returns a bot owned by the caller.
func (b *Bot) GetBot(ctx context.Context, callerID int64, botID string) (bot *models.Bot, err error) {
	ctx, span := startSpan(ctx, b.tracer, "bots.Get",
		attribute.Int64(otelhelper.UserIDKey, callerID),
		attribute.String(otelhelper.BotIDKey, botID))
	defer func() { endSpan(span, err) }()

	return b.ownership.AuthorizeBotAccess(ctx, callerID, botID)
}

// CreateBot stores a new bot owned by the caller.
func (b *Bot) CreateBot(ctx context.Context, callerID int64, input CreateBotInput) (bot *models.Bot, err error) {
	ctx, span := startSpan(ctx, b.tracer, "bots.Create", attribute.Int64(otelhelper.UserIDKey, callerID))
	defer func() { endSpan(span, err) }()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewValidationError("CreateBot", ErrNameRequired)
	}

	timestamp := now()
	bot = &models.Bot{
		ID:            uuid.Must(uuid.NewV7()).String(),
		UserID:        callerID,
		Name:          name,
		Description:   normalizeOptional(input.Description),
		TelegramToken: normalizeOptional(input.TelegramToken),
		IsActive:      input.IsActive,
		CreatedAt:     timestamp,
		UpdatedAt:     timestamp,
	}

	err = b.persistence.BotRepository().Create(ctx, bot)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.logger.InfoContext(ctx, "Bot created", "bot_id", bot.ID, "user_id", callerID)

	publish(ctx, b.logger, b.publisher, bot.ID, events.BotCreated{
		BaseEvent: events.NewBaseEvent(events.BotCreatedEvent, callerID, bot.ID),
		Name:      bot.Name,
		IsActive:  bot.IsActive,
	})

	return bot, nil
}

// UpdateBot applies the present fields of patch to a bot owned by the caller.
// The owner never changes.
func (b *Bot) UpdateBot(ctx context.Context, callerID int64, botID string, patch BotPatch) (bot *models.Bot, err error) {
	ctx, span := startSpan(ctx, b.tracer, "bots.Update",
		attribute.Int64(otelhelper.UserIDKey, callerID),
		attribute.String(otelhelper.BotIDKey, botID))
	defer func() { endSpan(span, err) }()

	bot, err = b.ownership.AuthorizeBotAccess(ctx, callerID, botID)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return nil, NewValidationError("UpdateBot", ErrNoFieldsToUpdate)
	}

	if name, ok := patch.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, NewValidationError("UpdateBot", ErrNameRequired)
		}

		bot.Name = name
	}

	if description, ok := patch.Description.Get(); ok {
		bot.Description = normalizeOptional(description)
	}

	if token, ok := patch.TelegramToken.Get(); ok {
		bot.TelegramToken = normalizeOptional(token)
	}

	if isActive, ok := patch.IsActive.Get(); ok {
		bot.IsActive = isActive
	}

	bot.UpdatedAt = now()

	err = b.persistence.BotRepository().Update(ctx, bot)
	if err != nil {
		if persistence.IsBotNotFound(err) {
			return nil, fmt.Errorf("bot %q: %w", botID, ErrNotFound)
		}

		return nil, fmt.Errorf("failed to update bot: %w", err)
	}

	b.logger.InfoContext(ctx, "Bot updated", "bot_id", bot.ID)

	publish(ctx, b.logger, b.publisher, bot.ID, events.BotUpdated{
		BaseEvent: events.NewBaseEvent(events.BotUpdatedEvent, callerID, bot.ID),
		Name:      bot.Name,
		IsActive:  bot.IsActive,
	})

	return bot, nil
}

// DeleteBot removes a bot owned by the caller together with its flows.
func (b *Bot) DeleteBot(ctx context.Context, callerID int64, botID string) (err error) {
	ctx, span := startSpan(ctx, b.tracer, "bots.Delete",
		attribute.Int64(otelhelper.UserIDKey, callerID),
		attribute.String(otelhelper.BotIDKey, botID))
	defer func() { endSpan(span, err) }()

	bot, err := b.ownership.AuthorizeBotAccess(ctx, callerID, botID)
	if err != nil {
		return err
	}

	err = b.persistence.BotRepository().Delete(ctx, bot.ID)
	if err != nil {
		if persistence.IsBotNotFound(err) {
			return fmt.Errorf("bot %q: %w", botID, ErrNotFound)
		}

		return fmt.Errorf("failed to delete bot: %w", err)
	}

	b.logger.InfoContext(ctx, "Bot deleted", "bot_id", bot.ID)

	publish(ctx, b.logger, b.publisher, bot.ID, events.BotDeleted{
		BaseEvent: events.NewBaseEvent(events.BotDeletedEvent, callerID, bot.ID),
	})

	return nil
}
