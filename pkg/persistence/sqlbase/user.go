package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"

	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/persistence"
)

const userColumns = `
			id
		  , email
		  , name
		  , password_hash
		  , created_at
		  , updated_at`

// UserRepository handles user-related database operations.
type UserRepository struct {
	db      *sql.DB
	logger  *slog.Logger
	dialect Dialect
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sql.DB, logger *slog.Logger, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, logger: logger, dialect: dialect}
}

// Create inserts a user and sets its generated ID.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if r.dialect.IsUniqueViolation != nil && r.dialect.IsUniqueViolation(err) {
			return persistence.NewEntityError("users.Create", user.Email, persistence.ErrEmailTaken)
		}

		return persistence.NewStorageError("users.Create", err)
	}

	return nil
}

// GetByID returns a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewEntityError("users.GetByID", strconv.FormatInt(id, 10), persistence.ErrUserNotFound)
		}

		return nil, persistence.NewStorageError("users.GetByID", err)
	}

	return user, nil
}

// GetByEmail returns a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE email = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewEntityError("users.GetByEmail", email, persistence.ErrUserNotFound)
		}

		return nil, persistence.NewStorageError("users.GetByEmail", err)
	}

	return user, nil
}

func scanUser(row scanner) (*models.User, error) {
	var user models.User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	return &user, nil
}
