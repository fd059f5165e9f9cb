// Package ownership authorizes access along the user → bot → flow chain.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/persistence"
)

// ErrNotFound is returned for entities that are missing or owned by someone else.
// Callers cannot tell the two cases apart.
var ErrNotFound = errors.New("not found")

// Resolver checks ownership against storage on every call. It holds no cache.
type Resolver struct {
	bots  persistence.BotRepository
	flows persistence.FlowRepository
}

// NewResolver creates a resolver reading from the given persistence.
func NewResolver(p persistence.Persistence) *Resolver {
	return &Resolver{
		bots:  p.BotRepository(),
		flows: p.FlowRepository(),
	}
}

// ResolveBotOwner returns the ID of the user owning the bot.
func (r *Resolver) ResolveBotOwner(ctx context.Context, botID string) (int64, error) {
	bot, err := r.loadBot(ctx, botID)
	if err != nil {
		return 0, err
	}

	return bot.UserID, nil
}

// AuthorizeBotAccess returns the bot when callerID owns it.
func (r *Resolver) AuthorizeBotAccess(ctx context.Context, callerID int64, botID string) (*models.Bot, error) {
	bot, err := r.loadBot(ctx, botID)
	if err != nil {
		return nil, err
	}

	if !bot.OwnedBy(callerID) {
		return nil, botNotFound(botID)
	}

	return bot, nil
}

// AuthorizeFlowAccess returns the flow and its bot when callerID owns the bot.
func (r *Resolver) AuthorizeFlowAccess(ctx context.Context, callerID int64, flowID string) (*models.FlowRecord, *models.Bot, error) {
	if uuid.Validate(flowID) != nil {
		return nil, nil, flowNotFound(flowID)
	}

	flow, err := r.flows.GetByID(ctx, flowID)
	if err != nil {
		if persistence.IsFlowNotFound(err) {
			return nil, nil, flowNotFound(flowID)
		}

		return nil, nil, err
	}

	bot, err := r.bots.GetByID(ctx, flow.BotID)
	if err != nil {
		if persistence.IsBotNotFound(err) {
			return nil, nil, flowNotFound(flowID)
		}

		return nil, nil, err
	}

	if !bot.OwnedBy(callerID) {
		return nil, nil, flowNotFound(flowID)
	}

	return flow, bot, nil
}

func (r *Resolver) loadBot(ctx context.Context, botID string) (*models.Bot, error) {
	if uuid.Validate(botID) != nil {
		return nil, botNotFound(botID)
	}

	bot, err := r.bots.GetByID(ctx, botID)
	if err != nil {
		if persistence.IsBotNotFound(err) {
			return nil, botNotFound(botID)
		}

		return nil, err
	}

	return bot, nil
}

func botNotFound(botID string) error {
	return fmt.Errorf("bot %q: %w", botID, ErrNotFound)
}

func flowNotFound(flowID string) error {
	return fmt.Errorf("flow %q: %w", flowID, ErrNotFound)
}
