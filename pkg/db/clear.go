package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const clearLogPrefix = "db:clear"

// ClearArchive truncates archive_messages and archive_cursors. The schema is
// kept, so the next sync starts every channel from the beginning.
func ClearArchive(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info(fmt.Sprintf("%s - Clearing archive tables", clearLogPrefix))

	_, err := pool.Exec(ctx, `TRUNCATE TABLE archive_messages, archive_cursors`)
	if err != nil {
		return fmt.Errorf("%s - truncate failed: %w", clearLogPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Archive cleared", clearLogPrefix))
	return nil
}
