package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/keyauth"
	"github.com/teleboot/teleboot/pkg/services"
)

type contextKey int

const callerIDKey contextKey = 0

// Authenticator resolves a bearer token to the caller's user ID.
type Authenticator interface {
	Authenticate(token string) (int64, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user ID for the handlers.
func RequireAuth(auth Authenticator) fiber.Handler {
	return keyauth.New(keyauth.Config{
		Validator: func(c fiber.Ctx, token string) (bool, error) {
			userID, err := auth.Authenticate(token)
			if err != nil {
				return false, err
			}

			c.Locals(callerIDKey, userID)

			return true, nil
		},
		ErrorHandler: func(c fiber.Ctx, err error) error {
			if errors.Is(err, keyauth.ErrMissingOrMalformedAPIKey) {
				return unauthorized(c, "access token required")
			}

			var serviceErr *services.ServiceError
			if errors.As(err, &serviceErr) {
				return unauthorized(c, serviceErr.Message)
			}

			return unauthorized(c, "invalid or expired token")
		},
	})
}

// CallerID returns the user ID stored by RequireAuth.
func CallerID(c fiber.Ctx) int64 {
	userID, _ := c.Locals(callerIDKey).(int64)

	return userID
}
