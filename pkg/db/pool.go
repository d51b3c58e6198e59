// Package db is the Postgres archive store, built on pgx.
package db

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const logPrefix = "db:pool"

// NewPool creates a new pgx connection pool from the given database URL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	slog.Info(fmt.Sprintf("%s - Connecting to database", logPrefix))

	config, err := poolConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create pool: %w", logPrefix, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s - failed to ping database: %w", logPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Database connection established", logPrefix))
	return pool, nil
}

// poolConfig parses databaseURL and sizes the pool for the archiver.
func poolConfig(databaseURL string) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to parse database URL: %w", logPrefix, err)
	}
	// The archiver writes one batch per channel at a time.
	config.MaxConns = 8
	config.MinConns = 1
	return config, nil
}

// MigrationStatus writes one line per migration file in migrationPath,
// marking it applied (with its time) or pending.
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool, w io.Writer, migrationPath string) error {
	const statusLogPrefix = "db:MigrationStatus"

	migrations, err := LoadMigrations(migrationPath)
	if err != nil {
		return fmt.Errorf("%s - load migration list: %w", statusLogPrefix, err)
	}
	applied, err := AppliedMigrations(ctx, pool)
	if err != nil {
		return fmt.Errorf("%s - %w", statusLogPrefix, err)
	}
	WriteMigrationStatus(w, migrations, applied)
	return nil
}

// WriteMigrationStatus formats the status lines for MigrationStatus.
func WriteMigrationStatus(w io.Writer, migrations []Migration, applied map[string]time.Time) {
	pending := len(PendingMigrations(migrations, applied))
	for _, m := range migrations {
		if at, ok := applied[m.Name]; ok {
			fmt.Fprintf(w, "applied  %s  %s\n", m.Name, at.UTC().Format(time.RFC3339))
		} else {
			fmt.Fprintf(w, "pending  %s\n", m.Name)
		}
	}
	if pending > 0 {
		fmt.Fprintf(w, "%d pending (run 'slackapi migrate up')\n", pending)
	} else {
		fmt.Fprintf(w, "up to date (%d migrations)\n", len(migrations))
	}
}

// MigrationDown is not supported: migrations are forward-only. It writes a
// notice and returns nil.
func MigrationDown(w io.Writer) error {
	fmt.Fprintln(w, "Migration down: not supported (migrations are forward-only). Use a database backup to roll back.")
	return nil
}
