package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/persistence"
)

const flowColumns = `
			id
		  , bot_id
		  , name
		  , description
		  , flow_data
		  , is_main
		  , created_at
		  , updated_at`

// FlowRepository handles flow-related database operations.
type FlowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewFlowRepository creates a new flow repository.
func NewFlowRepository(db *sql.DB, logger *slog.Logger) *FlowRepository {
	return &FlowRepository{db: db, logger: logger}
}

// ListByBot returns the bot's flows, newest first.
func (r *FlowRepository) ListByBot(ctx context.Context, botID string) ([]*models.FlowRecord, error) {
	query := `SELECT` + flowColumns + `
		FROM bot_flows
		WHERE bot_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, botID)
	if err != nil {
		return nil, persistence.NewStorageError("flows.ListByBot", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	flows := make([]*models.FlowRecord, 0)

	for rows.Next() {
		flow, err := scanFlow(rows)
		if err != nil {
			return nil, persistence.NewStorageError("flows.ListByBot", err)
		}

		flows = append(flows, flow)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewStorageError("flows.ListByBot", err)
	}

	return flows, nil
}

// GetByID returns a flow by its ID.
func (r *FlowRepository) GetByID(ctx context.Context, id string) (*models.FlowRecord, error) {
	query := `SELECT` + flowColumns + `
		FROM bot_flows
		WHERE id = $1
	`

	flow, err := scanFlow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewEntityError("flows.GetByID", id, persistence.ErrFlowNotFound)
		}

		return nil, persistence.NewStorageError("flows.GetByID", err)
	}

	return flow, nil
}

// Create inserts a flow. A main flow demotes the bot's other flows in the same transaction.
func (r *FlowRepository) Create(ctx context.Context, flow *models.FlowRecord) error {
	return r.withTx(ctx, "flows.Create", func(tx *sql.Tx) error {
		query := `
			INSERT INTO bot_flows (id, bot_id, name, description, flow_data, is_main, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		_, err := tx.ExecContext(ctx, query,
			flow.ID,
			flow.BotID,
			flow.Name,
			flow.Description,
			flow.FlowData,
			flow.IsMain,
			flow.CreatedAt,
			flow.UpdatedAt,
		)
		if err != nil {
			return persistence.NewStorageError("flows.Create", err)
		}

		return demoteOtherMains(ctx, tx, flow)
	})
}

// Update overwrites a flow. A main flow demotes the bot's other flows in the same transaction.
func (r *FlowRepository) Update(ctx context.Context, flow *models.FlowRecord) error {
	return r.withTx(ctx, "flows.Update", func(tx *sql.Tx) error {
		query := `
			UPDATE bot_flows SET
				name = $1,
				description = $2,
				flow_data = $3,
				is_main = $4,
				updated_at = $5
			WHERE id = $6
		`

		result, err := tx.ExecContext(ctx, query,
			flow.Name,
			flow.Description,
			flow.FlowData,
			flow.IsMain,
			flow.UpdatedAt,
			flow.ID,
		)
		if err != nil {
			return persistence.NewStorageError("flows.Update", err)
		}

		err = requireAffected(result, "flows.Update", flow.ID, persistence.ErrFlowNotFound)
		if err != nil {
			return err
		}

		return demoteOtherMains(ctx, tx, flow)
	})
}

// Delete removes a flow.
func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bot_flows WHERE id = $1`, id)
	if err != nil {
		return persistence.NewStorageError("flows.Delete", err)
	}

	return requireAffected(result, "flows.Delete", id, persistence.ErrFlowNotFound)
}

func (r *FlowRepository) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence.NewStorageError(op, err)
	}

	err = fn(tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			r.logger.ErrorContext(ctx, "failed to rollback transaction", "op", op, "error", rollbackErr)
		}

		return err
	}

	return persistence.NewStorageError(op, tx.Commit())
}

func demoteOtherMains(ctx context.Context, tx *sql.Tx, flow *models.FlowRecord) error {
	if !flow.IsMain {
		return nil
	}

	query := `
		UPDATE bot_flows SET
			is_main = $1,
			updated_at = $2
		WHERE bot_id = $3 AND id <> $4 AND is_main = $5
	`

	_, err := tx.ExecContext(ctx, query, false, flow.UpdatedAt, flow.BotID, flow.ID, true)

	return persistence.NewStorageError("flows.demoteOtherMains", err)
}

func scanFlow(row scanner) (*models.FlowRecord, error) {
	var (
		flow        models.FlowRecord
		description sql.NullString
	)

	err := row.Scan(
		&flow.ID,
		&flow.BotID,
		&flow.Name,
		&description,
		&flow.FlowData,
		&flow.IsMain,
		&flow.CreatedAt,
		&flow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	flow.Description = nullableString(description)
	flow.CreatedAt = flow.CreatedAt.UTC()
	flow.UpdatedAt = flow.UpdatedAt.UTC()

	return &flow, nil
}
