package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

const (
	defaultPort        = 3001
	defaultDatabaseURL = "sqlite://teleboot.db"
)

func main() {
	cmd := &cli.Command{
		Name:                  "teleboot-api",
		Usage:                 "Build and manage Telegram bot conversation flows",
		EnableShellCompletion: true,
		DefaultCommand:        "run",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database URL (postgres://... for PostgreSQL, sqlite://path or a file path for SQLite)",
				Value:   defaultDatabaseURL,
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the template cache (disabled when empty)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
		},
		Commands: []*cli.Command{
			RunAPICommand(),
			SeedCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
