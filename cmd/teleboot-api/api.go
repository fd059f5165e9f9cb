// Package main provides the Teleboot API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/teleboot/teleboot/pkg/cache"
	"github.com/teleboot/teleboot/pkg/eventbus"
	"github.com/teleboot/teleboot/pkg/events"
	"github.com/teleboot/teleboot/pkg/identity"
	"github.com/teleboot/teleboot/pkg/persistence"
	"github.com/teleboot/teleboot/pkg/services"
	"github.com/teleboot/teleboot/pkg/web"
	"golang.org/x/crypto/bcrypt"
)

type API struct {
	logger        *slog.Logger
	persistence   persistence.Persistence
	eventBus      eventbus.EventBus
	templateCache cache.TemplateCache
	tokens        *identity.Tokens
	validate      *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	templateCache cache.TemplateCache,
	tokens *identity.Tokens,
) *API {
	return &API{
		logger:        logger,
		persistence:   persistence,
		eventBus:      eventBus,
		templateCache: templateCache,
		tokens:        tokens,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	var publisher eventbus.EventPublisher
	if a.eventBus != nil {
		publisher = a.eventBus
	}

	userService := services.NewUser(a.persistence, identity.NewHasher(bcrypt.DefaultCost), a.tokens, a.logger)
	botService := services.NewBot(a.persistence, publisher, a.logger)
	flowService := services.NewFlow(a.persistence, publisher, a.logger)
	templateService := services.NewTemplate(a.persistence, a.templateCache, a.logger)

	handlers := web.NewAPIHandlers(
		a.persistence,
		userService,
		botService,
		flowService,
		templateService,
		a.validate,
		a.logger,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return a.persistence.HealthCheck(c.Context()) == nil
		},
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Teleboot API")
	})

	handlers.RegisterRoutes(app.Group("/api"))

	return app
}

// Start serves the API until ctx is cancelled.
func (a *API) Start(ctx context.Context, port int) error {
	if a.eventBus != nil {
		err := a.subscribeLifecycleLog(ctx)
		if err != nil {
			return err
		}
	}

	app := a.App()

	go func() {
		<-ctx.Done()

		err := app.Shutdown()
		if err != nil {
			a.logger.Error("Failed to shutdown API server", "error", err)
		}
	}()

	a.logger.InfoContext(ctx, "Starting Teleboot API", "port", port)

	return app.Listen(":"+strconv.Itoa(port), fiber.ListenConfig{DisableStartupMessage: true})
}

// subscribeLifecycleLog logs every lifecycle event the API publishes.
func (a *API) subscribeLifecycleLog(ctx context.Context) error {
	handler := func(ctx context.Context, event any) error {
		e, ok := event.(eventbus.Event)
		if !ok {
			return errors.New("unexpected lifecycle event payload")
		}

		a.logger.DebugContext(ctx, "Lifecycle event", "event_type", e.GetType(), "event", event)

		return nil
	}

	for _, eventType := range []events.EventType{
		events.BotCreatedEvent,
		events.BotUpdatedEvent,
		events.BotDeletedEvent,
		events.FlowCreatedEvent,
		events.FlowUpdatedEvent,
		events.FlowDeletedEvent,
	} {
		err := a.eventBus.Handle(eventType, handler)
		if err != nil {
			return err
		}
	}

	return a.eventBus.Subscribe(ctx)
}
