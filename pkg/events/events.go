// Package events defines event types and structures for bot and flow lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every lifecycle event; consumers filter on the event type metadata.
const Topic = "teleboot.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Bot lifecycle events.
	BotCreatedEvent EventType = "bot.created"
	BotUpdatedEvent EventType = "bot.updated"
	BotDeletedEvent EventType = "bot.deleted"

	// Flow lifecycle events.
	FlowCreatedEvent EventType = "flow.created"
	FlowUpdatedEvent EventType = "flow.updated"
	FlowDeletedEvent EventType = "flow.deleted"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id"`
	BotID     string    `json:"bot_id"`
}

type BotCreated struct {
	BaseEvent

	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func (b BotCreated) GetType() EventType {
	return BotCreatedEvent
}

type BotUpdated struct {
	BaseEvent

	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func (b BotUpdated) GetType() EventType {
	return BotUpdatedEvent
}

type BotDeleted struct {
	BaseEvent
}

func (b BotDeleted) GetType() EventType {
	return BotDeletedEvent
}

type FlowCreated struct {
	BaseEvent

	FlowID string `json:"flow_id"`
	IsMain bool   `json:"is_main"`
}

func (f FlowCreated) GetType() EventType {
	return FlowCreatedEvent
}

// FlowUpdated tells the runtime to reload the flow graph.
type FlowUpdated struct {
	BaseEvent

	FlowID string `json:"flow_id"`
	IsMain bool   `json:"is_main"`
}

func (f FlowUpdated) GetType() EventType {
	return FlowUpdatedEvent
}

type FlowDeleted struct {
	BaseEvent

	FlowID string `json:"flow_id"`
}

func (f FlowDeleted) GetType() EventType {
	return FlowDeletedEvent
}

func NewBaseEvent(eventType EventType, userID int64, botID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		BotID:     botID,
	}
}
