package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

type MigrateCommand string

const (
	MigrateUp     MigrateCommand = "up"
	MigrateDown   MigrateCommand = "down"
	MigrateStatus MigrateCommand = "status"
)

func ParseMigrateCommand(s string) (MigrateCommand, error) {
	switch c := MigrateCommand(s); c {
	case MigrateUp, MigrateDown, MigrateStatus:
		return c, nil
	default:
		return "", fmt.Errorf("unknown migrate command %q (want up, down or status)", s)
	}
}

// Migrator runs the schema migrations embedded in the binary.
type Migrator struct {
	provider *goose.Provider
}

func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, stdlib.OpenDBFromPool(pool), fsys)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}

	return &Migrator{provider: provider}, nil
}

func (m *Migrator) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	res, err := m.provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}
	return res, nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (*goose.MigrationResult, error) {
	res, err := m.provider.Down(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose down: %w", err)
	}
	return res, nil
}

func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	res, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	return res, nil
}

// Close releases the connection borrowed from the pool. The pool stays open.
func (m *Migrator) Close() error {
	return m.provider.Close()
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	m, err := NewMigrator(pool)
	if err != nil {
		return err
	}
	defer m.Close()

	if _, err := m.Up(ctx); err != nil {
		return err
	}

	return nil
}
