package models

import "time"

// BotSession is runtime conversation state for one chat user of a bot.
// The schema keeps it as an extension point for the external bot runtime;
// no operation in this module reads or writes it.
type BotSession struct {
	ID             string    `json:"id"`
	BotID          string    `json:"bot_id"`
	TelegramUserID string    `json:"telegram_user_id"`
	CurrentNode    *string   `json:"current_node,omitempty"`
	SessionData    *string   `json:"session_data,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
