package models

import "time"

// Bot is a messaging-platform bot owned by exactly one user.
// UserID is immutable after creation.
type Bot struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	TelegramToken *string   `json:"telegram_token,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OwnedBy reports whether the bot belongs to the given user.
func (b *Bot) OwnedBy(userID int64) bool {
	return b != nil && b.UserID == userID
}
