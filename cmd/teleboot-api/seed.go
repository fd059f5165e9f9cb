package main

import (
	"context"
	"fmt"

	"github.com/teleboot/teleboot/pkg/cmd"
	"github.com/teleboot/teleboot/pkg/log"
	"github.com/teleboot/teleboot/pkg/services"
	"github.com/urfave/cli/v3"
)

func SeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Migrate the database and insert the starter templates when the catalog is empty",
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("seed")

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

			seeded, err := services.NewTemplate(persistence, templateCache, logger).SeedDefaults(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed templates: %w", err)
			}

			if !seeded {
				logger.InfoContext(ctx, "Template catalog already populated, nothing to do")
			}

			return nil
		},
	}
}
