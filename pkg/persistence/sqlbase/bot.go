package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/persistence"
)

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const botColumns = `
			id
		  , user_id
		  , name
		  , description
		  , telegram_token
		  , is_active
		  , created_at
		  , updated_at`

// BotRepository handles bot-related database operations.
type BotRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewBotRepository creates a new bot repository.
func NewBotRepository(db *sql.DB, logger *slog.Logger) *BotRepository {
	return &BotRepository{db: db, logger: logger}
}

// ListByUser returns the user's bots, newest first.
func (r *BotRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Bot, error) {
	query := `SELECT` + botColumns + `
		FROM bots
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, persistence.NewStorageError("bots.ListByUser", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	bots := make([]*models.Bot, 0)

	for rows.Next() {
		bot, err := scanBot(rows)
		if err != nil {
			return nil, persistence.NewStorageError("bots.ListByUser", err)
		}

		bots = append(bots, bot)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewStorageError("bots.ListByUser", err)
	}

	return bots, nil
}

// GetByID returns a bot by its ID.
func (r *BotRepository) GetByID(ctx context.Context, id string) (*models.Bot, error) {
	query := `SELECT` + botColumns + `
		FROM bots
		WHERE id = $1
	`

	bot, err := scanBot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewEntityError("bots.GetByID", id, persistence.ErrBotNotFound)
		}

		return nil, persistence.NewStorageError("bots.GetByID", err)
	}

	return bot, nil
}

// Create inserts a new bot.
func (r *BotRepository) Create(ctx context.Context, bot *models.Bot) error {
	query := `
		INSERT INTO bots (id, user_id, name, description, telegram_token, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		bot.ID,
		bot.UserID,
		bot.Name,
		bot.Description,
		bot.TelegramToken,
		bot.IsActive,
		bot.CreatedAt,
		bot.UpdatedAt,
	)

	return persistence.NewStorageError("bots.Create", err)
}

// Update overwrites the mutable fields of a bot. The owner is never changed.
func (r *BotRepository) Update(ctx context.Context, bot *models.Bot) error {
	query := `
		UPDATE bots SET
			name = $1,
			description = $2,
			telegram_token = $3,
			is_active = $4,
			updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		bot.Name,
		bot.Description,
		bot.TelegramToken,
		bot.IsActive,
		bot.UpdatedAt,
		bot.ID,
	)
	if err != nil {
		return persistence.NewStorageError("bots.Update", err)
	}

	return requireAffected(result, "bots.Update", bot.ID, persistence.ErrBotNotFound)
}

// Delete removes a bot. Flows and sessions are removed by ON DELETE CASCADE.
func (r *BotRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bots WHERE id = $1`, id)
	if err != nil {
		return persistence.NewStorageError("bots.Delete", err)
	}

	return requireAffected(result, "bots.Delete", id, persistence.ErrBotNotFound)
}

func scanBot(row scanner) (*models.Bot, error) {
	var (
		bot           models.Bot
		description   sql.NullString
		telegramToken sql.NullString
	)

	err := row.Scan(
		&bot.ID,
		&bot.UserID,
		&bot.Name,
		&description,
		&telegramToken,
		&bot.IsActive,
		&bot.CreatedAt,
		&bot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bot.Description = nullableString(description)
	bot.TelegramToken = nullableString(telegramToken)
	bot.CreatedAt = bot.CreatedAt.UTC()
	bot.UpdatedAt = bot.UpdatedAt.UTC()

	return &bot, nil
}

func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}

	return &value.String
}

func requireAffected(result sql.Result, op, id string, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewStorageError(op, err)
	}

	if rowsAffected == 0 {
		return persistence.NewEntityError(op, id, notFound)
	}

	return nil
}
