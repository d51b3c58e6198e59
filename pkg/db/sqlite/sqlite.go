// Package sqlite is a single-file archive.Store for running the archiver
// without a Postgres server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/morezero/slackapi/pkg/archive"
)

const logPrefix = "db:sqlite"

const schemaVersion = "2"

// Store owns the SQLite archive database.
type Store struct {
	db   *sql.DB
	path string
}

var _ archive.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path. Call Init before use.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%s - create dir for %s: %w", logPrefix, path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s - open %s: %w", logPrefix, path, err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)
	return &Store{db: db, path: path}, nil
}

// Path returns the underlying SQLite file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init applies pragmas and creates the schema.
func (s *Store) Init(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite: nil store")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, stmt := range pragmas {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s - apply pragma %q: %w", logPrefix, stmt, err)
		}
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`); err != nil {
		return fmt.Errorf("%s - create meta: %w", logPrefix, err)
	}
	var version string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schemaVersion';`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s - read schema version: %w", logPrefix, err)
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS archive_messages (
			channel TEXT NOT NULL,
			ts TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			subtype TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			thread_ts TEXT NOT NULL DEFAULT '',
			posted_at INTEGER NOT NULL,
			raw BLOB NOT NULL,
			PRIMARY KEY (channel, ts)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_archive_messages_posted ON archive_messages(channel, posted_at);`,
		`CREATE TABLE IF NOT EXISTS archive_cursors (
			channel TEXT PRIMARY KEY,
			cursor TEXT NOT NULL DEFAULT '',
			backfill TEXT NOT NULL DEFAULT '',
			target TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		);`,
	}
	// Version 1 files predate backfill tracking.
	if version == "1" {
		ddl = append(ddl,
			`ALTER TABLE archive_cursors ADD COLUMN backfill TEXT NOT NULL DEFAULT '';`,
			`ALTER TABLE archive_cursors ADD COLUMN target TEXT NOT NULL DEFAULT '';`,
		)
	}
	ddl = append(ddl, `INSERT INTO meta(key, value) VALUES ('schemaVersion', '`+schemaVersion+`')
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;`)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s - begin schema: %w", logPrefix, err)
	}
	defer tx.Rollback()
	for _, stmt := range ddl {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s - apply schema: %w", logPrefix, err)
		}
	}
	return tx.Commit()
}

// SchemaVersion returns the schema version recorded by Init.
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var version string
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schemaVersion';`).Scan(&version); err != nil {
		return "", fmt.Errorf("%s - read schema version: %w", logPrefix, err)
	}
	return version, nil
}

// State returns the stored sync state for channel, zero if none.
func (s *Store) State(ctx context.Context, channel string) (archive.ChannelState, error) {
	var st archive.ChannelState
	err := s.db.QueryRowContext(ctx,
		`SELECT cursor, backfill, target FROM archive_cursors WHERE channel = ?;`, channel).Scan(&st.Cursor, &st.Backfill, &st.Target)
	if errors.Is(err, sql.ErrNoRows) {
		return archive.ChannelState{}, nil
	}
	if err != nil {
		return archive.ChannelState{}, fmt.Errorf("%s - read state: %w", logPrefix, err)
	}
	return st, nil
}

// SaveBatch upserts msgs and replaces the channel state in one transaction.
func (s *Store) SaveBatch(ctx context.Context, channel string, msgs []archive.StoredMessage, state archive.ChannelState) error {
	slog.Debug(fmt.Sprintf("%s - SaveBatch channel=%s messages=%d cursor=%s backfill=%s", logPrefix, channel, len(msgs), state.Cursor, state.Backfill))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s - begin: %w", logPrefix, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO archive_messages(channel, ts, user_id, subtype, text, thread_ts, posted_at, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(channel, ts) DO UPDATE SET
			user_id = excluded.user_id,
			subtype = excluded.subtype,
			text = excluded.text,
			thread_ts = excluded.thread_ts,
			raw = excluded.raw;
	`)
	if err != nil {
		return fmt.Errorf("%s - prepare insert: %w", logPrefix, err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		if _, err := stmt.ExecContext(ctx, channel, m.Ts, m.User, m.Subtype, m.Text, m.ThreadTs, m.PostedAt.UnixMicro(), m.Raw); err != nil {
			return fmt.Errorf("%s - insert %s/%s: %w", logPrefix, channel, m.Ts, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO archive_cursors(channel, cursor, backfill, target, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(channel) DO UPDATE SET
			cursor = excluded.cursor,
			backfill = excluded.backfill,
			target = excluded.target,
			updated_at = excluded.updated_at;
	`, channel, state.Cursor, state.Backfill, state.Target, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("%s - write state: %w", logPrefix, err)
	}
	return tx.Commit()
}

// CountMessages returns the number of archived messages in channel.
func (s *Store) CountMessages(ctx context.Context, channel string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM archive_messages WHERE channel = ?;`, channel).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s - count: %w", logPrefix, err)
	}
	return n, nil
}

// ListMessages returns up to limit archived messages in channel, newest first.
func (s *Store) ListMessages(ctx context.Context, channel string, limit int) ([]archive.StoredMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT channel, ts, user_id, subtype, text, thread_ts, posted_at, raw
		FROM archive_messages
		WHERE channel = ?
		ORDER BY posted_at DESC, ts DESC
		LIMIT ?;
	`, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("%s - list: %w", logPrefix, err)
	}
	defer rows.Close()

	var out []archive.StoredMessage
	for rows.Next() {
		var (
			m      archive.StoredMessage
			micros int64
		)
		if err := rows.Scan(&m.Channel, &m.Ts, &m.User, &m.Subtype, &m.Text, &m.ThreadTs, &micros, &m.Raw); err != nil {
			return nil, fmt.Errorf("%s - scan: %w", logPrefix, err)
		}
		m.PostedAt = time.UnixMicro(micros).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
