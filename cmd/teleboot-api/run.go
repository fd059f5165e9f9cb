package main

import (
	"context"
	"fmt"

	"github.com/teleboot/teleboot/pkg/cmd"
	"github.com/teleboot/teleboot/pkg/identity"
	"github.com/teleboot/teleboot/pkg/log"
	"github.com/teleboot/teleboot/pkg/otelhelper"
	"github.com/teleboot/teleboot/pkg/services"
	"github.com/urfave/cli/v3"
)

func RunAPICommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Migrate, seed the template catalog and start the API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "token-secret",
				Usage:   "Secret used to sign access tokens",
				Sources: cli.EnvVars("TOKEN_SECRET", "JWT_SECRET"),
			},
			&cli.DurationFlag{
				Name:    "token-ttl",
				Usage:   "How long access tokens stay valid",
				Value:   identity.DefaultTokenTTL,
				Sources: cli.EnvVars("TOKEN_TTL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka broker addresses",
				Value:   "localhost:9092",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing Teleboot API")

			if command.Bool("otel-enabled") {
				tracerProvider, err := otelhelper.NewTracerProvider(ctx, "teleboot-api")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}

				defer func() {
					err := tracerProvider.Shutdown(context.Background())
					if err != nil {
						logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
					}
				}()
			}

			tokens, err := identity.NewTokens(command.String("token-secret"), command.Duration("token-ttl"))
			if err != nil {
				return fmt.Errorf("invalid token configuration: %w", err)
			}

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			templateCache, err := cmd.NewTemplateCache(ctx, logger, command.String("redis-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := templateCache.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close template cache", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(logger, command.String("event-bus"), command.String("kafka-brokers"))
			if err != nil {
				return err
			}

			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			_, err = services.NewTemplate(persistence, templateCache, logger).SeedDefaults(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed templates: %w", err)
			}

			api := NewAPI(logger, persistence, eventBus, templateCache, tokens)

			return api.Start(ctx, command.Int("port"))
		},
	}
}
