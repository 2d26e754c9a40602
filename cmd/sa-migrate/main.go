package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/internal/log"
	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [up|down|status]\n", os.Args[0])
	}
	flag.Parse()

	command := db.MigrateUp
	if flag.NArg() > 0 {
		c, err := db.ParseMigrateCommand(flag.Arg(0))
		if err != nil {
			flag.Usage()
			return err
		}
		command = c
	}

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	migrator, err := db.NewMigrator(pgxPool)
	if err != nil {
		return fmt.Errorf("error creating migrator: %w", err)
	}
	defer migrator.Close()

	logger.InfoContext(ctx, "running database migration", slog.String("command", string(command)))

	switch command {
	case db.MigrateUp:
		results, err := migrator.Up(ctx)
		if err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}
		for _, r := range results {
			logger.InfoContext(ctx, "migration applied",
				slog.Int64("version", r.Source.Version),
				slog.String("path", r.Source.Path),
				slog.Duration("duration", r.Duration),
			)
		}
		if len(results) == 0 {
			logger.InfoContext(ctx, "database schema is up to date")
		}

	case db.MigrateDown:
		r, err := migrator.Down(ctx)
		if err != nil {
			return fmt.Errorf("error rolling back migration: %w", err)
		}
		logger.InfoContext(ctx, "migration rolled back",
			slog.Int64("version", r.Source.Version),
			slog.String("path", r.Source.Path),
		)

	case db.MigrateStatus:
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return fmt.Errorf("error reading migration status: %w", err)
		}
		for _, s := range statuses {
			attrs := []any{
				slog.Int64("version", s.Source.Version),
				slog.String("path", s.Source.Path),
				slog.String("state", string(s.State)),
			}
			if !s.AppliedAt.IsZero() {
				attrs = append(attrs, slog.Time("applied_at", s.AppliedAt))
			}
			logger.InfoContext(ctx, "migration", attrs...)
		}
	}

	logger.InfoContext(ctx, "database migration completed successfully")

	return nil
}
