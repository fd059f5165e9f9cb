// Package web provides HTTP handlers and REST API endpoints for bots, flows and templates.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/keyauth"
	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/services"
)

const (
	botNotFound      = "bot not found"
	flowNotFound     = "flow not found"
	templateNotFound = "template not found"
	userNotFound     = "user not found"
)

type APIHandlers struct {
	persistence     persistence.Persistence
	userService     *services.User
	botService      *services.Bot
	flowService     *services.Flow
	templateService *services.Template
	validator       *validator.Validate
	logger          *slog.Logger
}

func NewAPIHandlers(
	p persistence.Persistence,
	userService *services.User,
	botService *services.Bot,
	flowService *services.Flow,
	templateService *services.Template,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		persistence:     p,
		userService:     userService,
		botService:      botService,
		flowService:     flowService,
		templateService: templateService,
		validator:       validator,
		logger:          logger.With("module", "web"),
	}
}

// RegisterRoutes mounts every endpoint under router.
func (h *APIHandlers) RegisterRoutes(router fiber.Router) {
	auth := RequireAuth(h.userService)

	router.Get("/health", h.HealthCheck)

	a := router.Group("/auth")
	a.Post("/register", h.Register)
	a.Post("/login", h.Login)
	a.Get("/verify", h.Verify, auth)

	b := router.Group("/bots", auth)
	b.Get("/", h.GetBots)
	b.Post("/", h.CreateBot)
	b.Get("/:id", h.GetBot)
	b.Put("/:id", h.UpdateBot)
	b.Patch("/:id", h.UpdateBot)
	b.Delete("/:id", h.DeleteBot)

	f := router.Group("/flows", auth)
	f.Get("/bot/:botId", h.GetFlows)
	f.Post("/bot/:botId", h.CreateFlow)
	f.Get("/:id", h.GetFlow)
	f.Put("/:id", h.UpdateFlow)
	f.Patch("/:id", h.UpdateFlow)
	f.Delete("/:id", h.DeleteFlow)

	t := router.Group("/templates")
	t.Get("/", h.GetTemplates)
	t.Get("/:id", h.GetTemplate)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	httpStatus := http.StatusOK
	storage := "ok"

	err := h.persistence.HealthCheck(c.Context())
	if err != nil {
		h.logger.ErrorContext(c.Context(), "Storage health check failed", "error", err)

		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
		storage = "unavailable"
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"storage": storage,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) Register(c fiber.Ctx) error {
	var req RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.userService.Register(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return handleServiceError(c, h.logger, err, userNotFound)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *APIHandlers) Login(c fiber.Ctx) error {
	var req LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid JSON format")
	}

	result, err := h.userService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return handleServiceError(c, h.logger, err, userNotFound)
	}

	return c.JSON(result)
}

func (h *APIHandlers) Verify(c fiber.Ctx) error {
	user, err := h.userService.Verify(c.Context(), keyauth.TokenFromContext(c))
	if err != nil {
		return handleServiceError(c, h.logger, err, userNotFound)
	}

	return c.JSON(VerifyResponse{Valid: true, User: user})
}

func (h *APIHandlers) GetBots(c fiber.Ctx) error {
	bots, err := h.botService.ListBots(c.Context(), CallerID(c))
	if err != nil {
		return handleServiceError(c, h.logger, err, botNotFound)
	}

	return c.JSON(bots)
}

func (h *APIHandlers) GetBot(c fiber.Ctx) error {
	bot, err := h.botService.GetBot(c.Context(), CallerID(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, h.logger, err, botNotFound)
	}

	return c.JSON(bot)
}

func (h *APIHandlers) CreateBot(c fiber.Ctx) error {
	var req CreateBotRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	bot, err := h.botService.CreateBot(c.Context(), CallerID(c), services.CreateBotInput{
		Name:          req.Name,
		Description:   req.Description,
		TelegramToken: req.TelegramToken,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return handleServiceError(c, h.logger, err, botNotFound)
	}

	return c.Status(fiber.StatusCreated).JSON(bot)
}

func (h *APIHandlers) UpdateBot(c fiber.Ctx) error {
	var fields patchFields
	if err := c.Bind().JSON(&fields); err != nil {
		return badRequest(c, "invalid JSON format")
	}

	patch, err := fields.toBotPatch()
	if err != nil {
		return badRequest(c, err.Error())
	}

	bot, err := h.botService.UpdateBot(c.Context(), CallerID(c), c.Params("id"), patch)
	if err != nil {
		return handleServiceError(c, h.logger, err, botNotFound)
	}

	return c.JSON(bot)
}

func (h *APIHandlers) DeleteBot(c fiber.Ctx) error {
	err := h.botService.DeleteBot(c.Context(), CallerID(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, h.logger, err, botNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetFlows(c fiber.Ctx) error {
	flows, err := h.flowService.ListFlows(c.Context(), CallerID(c), c.Params("botId"))
	if err != nil {
		return handleServiceError(c, h.logger, err, botNotFound)
	}

	return c.JSON(flows)
}

func (h *APIHandlers) GetFlow(c fiber.Ctx) error {
	flow, err := h.flowService.GetFlow(c.Context(), CallerID(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, h.logger, err, flowNotFound)
	}

	return c.JSON(flow)
}

func (h *APIHandlers) CreateFlow(c fiber.Ctx) error {
	var req CreateFlowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	graph, err := graphFromRequest(req.FlowData)
	if err != nil {
		return handleServiceError(c, h.logger, err, botNotFound)
	}

	flow, err := h.flowService.CreateFlow(c.Context(), CallerID(c), c.Params("botId"), services.CreateFlowInput{
		Name:        req.Name,
		Description: req.Description,
		Graph:       graph,
		IsMain:      req.IsMain,
	})
	if err != nil {
		return handleServiceError(c, h.logger, err, botNotFound)
	}

	return c.Status(fiber.StatusCreated).JSON(flow)
}

func (h *APIHandlers) UpdateFlow(c fiber.Ctx) error {
	var fields patchFields
	if err := c.Bind().JSON(&fields); err != nil {
		return badRequest(c, "invalid JSON format")
	}

	patch, err := fields.toFlowPatch()
	if err != nil {
		if services.IsValidationError(err) || services.IsMalformedPayload(err) {
			return handleServiceError(c, h.logger, err, flowNotFound)
		}

		return badRequest(c, err.Error())
	}

	flow, err := h.flowService.UpdateFlow(c.Context(), CallerID(c), c.Params("id"), patch)
	if err != nil {
		return handleServiceError(c, h.logger, err, flowNotFound)
	}

	return c.JSON(flow)
}

func (h *APIHandlers) DeleteFlow(c fiber.Ctx) error {
	err := h.flowService.DeleteFlow(c.Context(), CallerID(c), c.Params("id"))
	if err != nil {
		return handleServiceError(c, h.logger, err, flowNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	templates, err := h.templateService.ListPublicTemplates(c.Context())
	if err != nil {
		return handleServiceError(c, h.logger, err, templateNotFound)
	}

	return c.JSON(templates)
}

func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	template, err := h.templateService.GetPublicTemplate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, h.logger, err, templateNotFound)
	}

	return c.JSON(template)
}
