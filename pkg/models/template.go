package models

import "time"

// Template is a publicly readable example flow graph. Visibility is governed
// by IsPublic, not by the ownership chain.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	Graph       Graph     `json:"flow_data"`
	IsPublic    bool      `json:"is_public"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TemplateRecord is the persisted form of a template.
type TemplateRecord struct {
	ID          string
	Name        string
	Description *string
	Category    string
	FlowData    string
	IsPublic    bool
	CreatedBy   *int64
	CreatedAt   time.Time
}
