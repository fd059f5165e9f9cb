package web

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
	"github.com/teleboot/teleboot/pkg/services"
)

const internalErrorMessage = "internal server error"

func problem(c fiber.Ctx, status int, problemType, message string) error {
	p := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(message)

	return c.Status(status).JSON(ErrorResponse{
		Type:     p.Type,
		Title:    p.Title,
		Status:   p.Status,
		Detail:   p.Detail,
		Instance: p.Instance,
		Error:    message,
	})
}

func badRequest(c fiber.Ctx, message string) error {
	return problem(c, fiber.StatusBadRequest, "validation_error", message)
}

func unauthorized(c fiber.Ctx, message string) error {
	return problem(c, fiber.StatusUnauthorized, "unauthenticated", message)
}

func notFound(c fiber.Ctx, message string) error {
	return problem(c, fiber.StatusNotFound, "not_found", message)
}

func internalError(c fiber.Ctx, logger *slog.Logger, err error) error {
	logger.ErrorContext(c.Context(), "Request failed", "method", c.Method(), "path", c.Path(), "error", err)

	return problem(c, fiber.StatusInternalServerError, "internal_error", internalErrorMessage)
}

// handleServiceError maps service errors onto problem responses.
// notFoundMessage names the entity the route addresses.
func handleServiceError(c fiber.Ctx, logger *slog.Logger, err error, notFoundMessage string) error {
	var serviceErr *services.ServiceError

	switch {
	case services.IsValidationError(err):
		if errors.As(err, &serviceErr) {
			return badRequest(c, serviceErr.Message)
		}

		return badRequest(c, err.Error())

	case services.IsMalformedPayload(err):
		return badRequest(c, err.Error())

	case services.IsUnauthenticated(err):
		if errors.As(err, &serviceErr) {
			return unauthorized(c, serviceErr.Message)
		}

		return unauthorized(c, "invalid token")

	case services.IsNotFound(err):
		return notFound(c, notFoundMessage)

	case services.IsConflictError(err):
		message := "conflict"
		if errors.As(err, &serviceErr) {
			message = serviceErr.Message
		}

		return problem(c, fiber.StatusConflict, "conflict", message)

	default:
		// Storage and unexpected failures: detail is logged, never returned.
		return internalError(c, logger, err)
	}
}
