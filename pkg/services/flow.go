package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/teleboot/teleboot/pkg/codec"
	"github.com/teleboot/teleboot/pkg/eventbus"
	"github.com/teleboot/teleboot/pkg/events"
	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/otelhelper"
	"github.com/teleboot/teleboot/pkg/ownership"
	"github.com/teleboot/teleboot/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateFlowInput holds the fields of a new flow. Graph is required.
type CreateFlowInput struct {
	Name        string
	Description *string
	Graph       *models.Graph
	IsMain      bool
}

// FlowPatch holds the fields to change on a flow. Absent fields are kept.
type FlowPatch struct {
	Name        models.Optional[string]
	Description models.Optional[*string]
	Graph       models.Optional[models.Graph]
	IsMain      models.Optional[bool]
}

// IsEmpty reports whether the patch changes nothing.
func (p FlowPatch) IsEmpty() bool {
	return !p.Name.IsSet() && !p.Description.IsSet() && !p.Graph.IsSet() && !p.IsMain.IsSet()
}

// Flow manages flows scoped to the caller's bots.
type Flow struct {
	persistence persistence.Persistence
	ownership   *ownership.Resolver
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewFlow creates a new flow service. publisher may be nil.
func NewFlow(p persistence.Persistence, publisher eventbus.EventPublisher, logger *slog.Logger) *Flow {
	return &Flow{
		persistence: p,
		ownership:   ownership.NewResolver(p),
		publisher:   publisher,
		tracer:      otelhelper.Tracer(tracerName),
		logger:      logger.With("module", "flow-service"),
	}
}

// ListFlows returns the flows of a bot owned by the caller, newest first.
func (f *Flow) ListFlows(ctx context.Context, callerID int64, botID string) (flows []*models.Flow, err error) {
	ctx, span := startSpan(ctx, f.tracer, "flows.List",
		attribute.Int64(otelhelper.UserIDKey, callerID),
		attribute.String(otelhelper.BotIDKey, botID))
	defer func() { endSpan(span, err) }()

	_, err = f.ownership.AuthorizeBotAccess(ctx, callerID, botID)
	if err != nil {
		return nil, err
	}

	records, err := f.persistence.FlowRepository().ListByBot(ctx, botID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	flows = make([]*models.Flow, 0, len(records))

	for _, record := range records {
		flow, err := decodeFlow(record)
		if err != nil {
			return nil, err
		}

		flows = append(flows, flow)
	}

	return flows, nil
}

// GetFlow returns a flow whose bot is owned by the caller.
func (f *Flow) GetFlow(ctx context.Context, callerID int64, flowID string) (flow *models.Flow, err error) {
	ctx, span := startSpan(ctx, f.tracer, "flows.Get",
		attribute.Int64(otelhelper.UserIDKey, callerID),
		attribute.String(otelhelper.FlowIDKey, flowID))
	defer func() { endSpan(span, err) }()

	record, _, err := f.ownership.AuthorizeFlowAccess(ctx, callerID, flowID)
	if err != nil {
		return nil, err
	}

	return decodeFlow(record)
}

// CreateFlow validates, encodes and stores a new flow under a bot owned by the caller.
func (f *Flow) CreateFlow(ctx context.Context, callerID int64, botID string, input CreateFlowInput) (flow *models.Flow, err error) {
	ctx, span := startSpan(ctx, f.tracer, "flows.Create",
		attribute.Int64(otelhelper.UserIDKey, callerID),
		attribute.String(otelhelper.BotIDKey, botID))
	defer func() { endSpan(span, err) }()

	bot, err := f.ownership.AuthorizeBotAccess(ctx, callerID, botID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewValidationError("CreateFlow", ErrNameRequired)
	}

	if input.Graph == nil {
		return nil, NewValidationError("CreateFlow", ErrFlowDataRequired)
	}

	flowData, err := encodeGraph("CreateFlow", *input.Graph)
	if err != nil {
		return nil, err
	}

	timestamp := now()
	record := &models.FlowRecord{
		ID:          uuid.Must(uuid.NewV7()).String(),
		BotID:       bot.ID,
		Name:        name,
		Description: normalizeOptional(input.Description),
		FlowData:    flowData,
		IsMain:      input.IsMain,
		CreatedAt:   timestamp,
		UpdatedAt:   timestamp,
	}

	err = f.persistence.FlowRepository().Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create flow: %w", err)
	}

	f.logger.InfoContext(ctx, "Flow created", "flow_id", record.ID, "bot_id", bot.ID, "is_main", record.IsMain)

	publish(ctx, f.logger, f.publisher, bot.ID, events.FlowCreated{
		BaseEvent: events.NewBaseEvent(events.FlowCreatedEvent, callerID, bot.ID),
		FlowID:    record.ID,
		IsMain:    record.IsMain,
	})

	return decodeFlow(record)
}

// UpdateFlow applies the present fields of patch to a flow whose bot is owned by the caller.
func (f *Flow) UpdateFlow(ctx context.Context, callerID int64, flowID string, patch FlowPatch) (flow *models.Flow, err error) {
	ctx, span := startSpan(ctx, f.tracer, "flows.Update",
		attribute.Int64(otelhelper.UserIDKey, callerID),
		attribute.String(otelhelper.FlowIDKey, flowID))
	defer func() { endSpan(span, err) }()

	record, bot, err := f.ownership.AuthorizeFlowAccess(ctx, callerID, flowID)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return nil, NewValidationError("UpdateFlow", ErrNoFieldsToUpdate)
	}

	if name, ok := patch.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, NewValidationError("UpdateFlow", ErrNameRequired)
		}

		record.Name = name
	}

	if description, ok := patch.Description.Get(); ok {
		record.Description = normalizeOptional(description)
	}

	if graph, ok := patch.Graph.Get(); ok {
		record.FlowData, err = encodeGraph("UpdateFlow", graph)
		if err != nil {
			return nil, err
		}
	}

	if isMain, ok := patch.IsMain.Get(); ok {
		record.IsMain = isMain
	}

	record.UpdatedAt = now()

	err = f.persistence.FlowRepository().Update(ctx, record)
	if err != nil {
		if persistence.IsFlowNotFound(err) {
			return nil, fmt.Errorf("flow %q: %w", flowID, ErrNotFound)
		}

		return nil, fmt.Errorf("failed to update flow: %w", err)
	}

	f.logger.InfoContext(ctx, "Flow updated", "flow_id", record.ID, "bot_id", bot.ID)

	publish(ctx, f.logger, f.publisher, bot.ID, events.FlowUpdated{
		BaseEvent: events.NewBaseEvent(events.FlowUpdatedEvent, callerID, bot.ID),
		FlowID:    record.ID,
		IsMain:    record.IsMain,
	})

	return decodeFlow(record)
}

// DeleteFlow removes a flow whose bot is owned by the caller.
func (f *Flow) DeleteFlow(ctx context.Context, callerID int64, flowID string) (err error) {
	ctx, span := startSpan(ctx, f.tracer, "flows.Delete",
		attribute.Int64(otelhelper.UserIDKey, callerID),
		attribute.String(otelhelper.FlowIDKey, flowID))
	defer func() { endSpan(span, err) }()

	record, bot, err := f.ownership.AuthorizeFlowAccess(ctx, callerID, flowID)
	if err != nil {
		return err
	}

	err = f.persistence.FlowRepository().Delete(ctx, record.ID)
	if err != nil {
		if persistence.IsFlowNotFound(err) {
			return fmt.Errorf("flow %q: %w", flowID, ErrNotFound)
		}

		return fmt.Errorf("failed to delete flow: %w", err)
	}

	f.logger.InfoContext(ctx, "Flow deleted", "flow_id", record.ID, "bot_id", bot.ID)

	publish(ctx, f.logger, f.publisher, bot.ID, events.FlowDeleted{
		BaseEvent: events.NewBaseEvent(events.FlowDeletedEvent, callerID, bot.ID),
		FlowID:    record.ID,
	})

	return nil
}

func encodeGraph(op string, graph models.Graph) (string, error) {
	err := graph.Validate()
	if err != nil {
		return "", NewValidationError(op, err)
	}

	flowData, err := codec.Encode(graph)
	if err != nil {
		return "", fmt.Errorf("failed to encode flow graph: %w", err)
	}

	return flowData, nil
}

func decodeFlow(record *models.FlowRecord) (*models.Flow, error) {
	graph, err := codec.Decode(record.FlowData)
	if err != nil {
		return nil, fmt.Errorf("flow %q has an unreadable payload: %w", record.ID, err)
	}

	return &models.Flow{
		ID:          record.ID,
		BotID:       record.BotID,
		Name:        record.Name,
		Description: record.Description,
		Graph:       graph,
		IsMain:      record.IsMain,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}
