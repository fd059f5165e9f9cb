package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teleboot/teleboot/pkg/models"
	"github.com/teleboot/teleboot/pkg/otelhelper"
	"github.com/teleboot/teleboot/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PasswordHasher hashes and checks credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues and verifies bearer tokens carrying a user ID.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// User manages accounts and turns credentials into caller identities.
type User struct {
	persistence persistence.Persistence
	hasher      PasswordHasher
	tokens      TokenIssuer
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewUser creates a new account service.
func NewUser(p persistence.Persistence, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *User {
	return &User{
		persistence: p,
		hasher:      hasher,
		tokens:      tokens,
		tracer:      otelhelper.Tracer(tracerName),
		logger:      logger.With("module", "user-service"),
	}
}

// Register creates an account and returns it with a fresh token.
func (u *User) Register(ctx context.Context, email, password, name string) (result *AuthResult, err error) {
	ctx, span := startSpan(ctx, u.tracer, "users.Register")
	defer func() { endSpan(span, err) }()

	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	if email == "" || password == "" || name == "" {
		return nil, NewValidationError("Register", ErrRegistrationRequired)
	}

	if len(password) < MinPasswordLength {
		return nil, NewValidationError("Register", ErrPasswordTooShort)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	timestamp := now()
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    timestamp,
		UpdatedAt:    timestamp,
	}

	err = u.persistence.UserRepository().Create(ctx, user)
	if err != nil {
		if errors.Is(err, persistence.ErrEmailTaken) {
			return nil, newConflictError("Register", "user already exists", err)
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	u.logger.InfoContext(ctx, "User registered", "user_id", user.ID)

	return u.authResult(user)
}

// Login checks the credentials and returns the user with a fresh token.
func (u *User) Login(ctx context.Context, email, password string) (result *AuthResult, err error) {
	ctx, span := startSpan(ctx, u.tracer, "users.Login")
	defer func() { endSpan(span, err) }()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, NewValidationError("Login", ErrCredentialsRequired)
	}

	user, err := u.persistence.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		if persistence.IsUserNotFound(err) {
			return nil, newUnauthenticatedError("Login", "invalid credentials", err)
		}

		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	err = u.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, newUnauthenticatedError("Login", "invalid credentials", err)
	}

	return u.authResult(user)
}

// Verify returns the user identified by token.
func (u *User) Verify(ctx context.Context, token string) (user *models.User, err error) {
	ctx, span := startSpan(ctx, u.tracer, "users.Verify")
	defer func() { endSpan(span, err) }()

	userID, err := u.Authenticate(token)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64(otelhelper.UserIDKey, userID))

	user, err = u.persistence.UserRepository().GetByID(ctx, userID)
	if err != nil {
		if persistence.IsUserNotFound(err) {
			return nil, newUnauthenticatedError("Verify", "invalid token", err)
		}

		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// Authenticate returns the caller ID carried by token without touching storage.
func (u *User) Authenticate(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, newUnauthenticatedError("Authenticate", "access token required", errors.New("missing token"))
	}

	userID, err := u.tokens.Verify(token)
	if err != nil {
		return 0, newUnauthenticatedError("Authenticate", "invalid or expired token", err)
	}

	return userID, nil
}

func (u *User) authResult(user *models.User) (*AuthResult, error) {
	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
