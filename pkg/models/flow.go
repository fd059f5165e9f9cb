package models

import "time"

// Flow is a conversation graph owned by a bot, with its payload decoded.
type Flow struct {
	ID          string    `json:"id"`
	BotID       string    `json:"bot_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Graph       Graph     `json:"flow_data"`
	IsMain      bool      `json:"is_main"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FlowRecord is the persisted form of a flow. FlowData holds the encoded graph.
type FlowRecord struct {
	ID          string
	BotID       string
	Name        string
	Description *string
	FlowData    string
	IsMain      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
