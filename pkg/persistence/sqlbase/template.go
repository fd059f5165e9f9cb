package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/persistence"
)

const templateColumns = `
			id
		  , name
		  , description
		  , category
		  , flow_data
		  , is_public
		  , created_by
		  , created_at`

// TemplateRepository handles template-related database operations.
type TemplateRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(db *sql.DB, logger *slog.Logger) *TemplateRepository {
	return &TemplateRepository{db: db, logger: logger}
}

// ListPublic returns public templates, newest first.
func (r *TemplateRepository) ListPublic(ctx context.Context) ([]*models.TemplateRecord, error) {
	query := `SELECT` + templateColumns + `
		FROM templates
		WHERE is_public = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, true)
	if err != nil {
		return nil, persistence.NewStorageError("templates.ListPublic", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	templates := make([]*models.TemplateRecord, 0)

	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, persistence.NewStorageError("templates.ListPublic", err)
		}

		templates = append(templates, template)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewStorageError("templates.ListPublic", err)
	}

	return templates, nil
}

// GetPublicByID returns a public template. Private templates are reported as not found.
func (r *TemplateRepository) GetPublicByID(ctx context.Context, id string) (*models.TemplateRecord, error) {
	query := `SELECT` + templateColumns + `
		FROM templates
		WHERE id = $1 AND is_public = $2
	`

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, id, true))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewEntityError("templates.GetPublicByID", id, persistence.ErrTemplateNotFound)
		}

		return nil, persistence.NewStorageError("templates.GetPublicByID", err)
	}

	return template, nil
}

// Count returns the number of stored templates, public or not.
func (r *TemplateRepository) Count(ctx context.Context) (int, error) {
	var count int

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count)
	if err != nil {
		return 0, persistence.NewStorageError("templates.Count", err)
	}

	return count, nil
}

// SeedIfEmpty inserts templates when the table is empty. The check and the
// inserts share one transaction.
func (r *TemplateRepository) SeedIfEmpty(ctx context.Context, templates []*models.TemplateRecord) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, persistence.NewStorageError("templates.SeedIfEmpty", err)
	}

	seeded, err := seedTemplates(ctx, tx, templates)
	if err != nil || !seeded {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			r.logger.ErrorContext(ctx, "failed to rollback transaction", "error", rollbackErr)
		}

		return false, err
	}

	err = tx.Commit()
	if err != nil {
		return false, persistence.NewStorageError("templates.SeedIfEmpty", err)
	}

	return true, nil
}

func seedTemplates(ctx context.Context, tx *sql.Tx, templates []*models.TemplateRecord) (bool, error) {
	var count int

	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count)
	if err != nil {
		return false, persistence.NewStorageError("templates.SeedIfEmpty", err)
	}

	if count > 0 || len(templates) == 0 {
		return false, nil
	}

	query := `
		INSERT INTO templates (id, name, description, category, flow_data, is_public, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, template := range templates {
		_, err := tx.ExecContext(ctx, query,
			template.ID,
			template.Name,
			template.Description,
			template.Category,
			template.FlowData,
			template.IsPublic,
			template.CreatedBy,
			template.CreatedAt,
		)
		if err != nil {
			return false, persistence.NewStorageError("templates.SeedIfEmpty", err)
		}
	}

	return true, nil
}

func scanTemplate(row scanner) (*models.TemplateRecord, error) {
	var (
		template    models.TemplateRecord
		description sql.NullString
		createdBy   sql.NullInt64
	)

	err := row.Scan(
		&template.ID,
		&template.Name,
		&description,
		&template.Category,
		&template.FlowData,
		&template.IsPublic,
		&createdBy,
		&template.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	template.Description = nullableString(description)
	template.CreatedAt = template.CreatedAt.UTC()

	if createdBy.Valid {
		template.CreatedBy = &createdBy.Int64
	}

	return &template, nil
}
