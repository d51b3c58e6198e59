package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morezero/slackapi/pkg/archive"
)

const repoLogPrefix = "db:repository"

// DefaultListLimit caps ListMessages and SearchMessages when no limit is given.
const DefaultListLimit = 100

// Repository is the Postgres archive.Store.
type Repository struct {
	pool *pgxpool.Pool
}

var _ archive.Store = (*Repository)(nil)

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// State returns the stored sync state for channel, zero if none.
func (r *Repository) State(ctx context.Context, channel string) (archive.ChannelState, error) {
	var st archive.ChannelState
	err := r.pool.QueryRow(ctx,
		`SELECT cursor, backfill, target FROM archive_cursors WHERE channel = $1`, channel).Scan(&st.Cursor, &st.Backfill, &st.Target)
	if errors.Is(err, pgx.ErrNoRows) {
		return archive.ChannelState{}, nil
	}
	if err != nil {
		return archive.ChannelState{}, fmt.Errorf("%s - State failed: %w", repoLogPrefix, err)
	}
	return st, nil
}

// SaveBatch upserts msgs and the channel state in one transaction.
func (r *Repository) SaveBatch(ctx context.Context, channel string, msgs []archive.StoredMessage, state archive.ChannelState) error {
	slog.Debug(fmt.Sprintf("%s - SaveBatch channel=%s messages=%d cursor=%s backfill=%s", repoLogPrefix, channel, len(msgs), state.Cursor, state.Backfill))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s - begin: %w", repoLogPrefix, err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, m := range msgs {
		batch.Queue(
			`INSERT INTO archive_messages (channel, ts, user_id, subtype, text, thread_ts, posted_at, raw)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (channel, ts) DO UPDATE SET
			   user_id = EXCLUDED.user_id,
			   subtype = EXCLUDED.subtype,
			   text = EXCLUDED.text,
			   thread_ts = EXCLUDED.thread_ts,
			   raw = EXCLUDED.raw,
			   archived_at = now()`,
			channel, m.Ts, m.User, m.Subtype, m.Text, m.ThreadTs, m.PostedAt, m.Raw)
	}
	batch.Queue(
		`INSERT INTO archive_cursors (channel, cursor, backfill, target, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (channel) DO UPDATE SET
		   cursor = EXCLUDED.cursor,
		   backfill = EXCLUDED.backfill,
		   target = EXCLUDED.target,
		   updated_at = EXCLUDED.updated_at`,
		channel, state.Cursor, state.Backfill, state.Target, time.Now().UTC())

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s - SaveBatch failed: %w", repoLogPrefix, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s - commit: %w", repoLogPrefix, err)
	}
	return nil
}

// CountMessages returns the number of archived messages in channel.
func (r *Repository) CountMessages(ctx context.Context, channel string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM archive_messages WHERE channel = $1`, channel).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s - CountMessages failed: %w", repoLogPrefix, err)
	}
	return n, nil
}

// ListMessages returns the newest archived messages in channel, newest first.
func (r *Repository) ListMessages(ctx context.Context, channel string, limit int) ([]archive.StoredMessage, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.pool.Query(ctx,
		`SELECT channel, ts, user_id, subtype, text, thread_ts, posted_at, raw
		 FROM archive_messages
		 WHERE channel = $1
		 ORDER BY posted_at DESC, ts DESC
		 LIMIT $2`, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("%s - ListMessages failed: %w", repoLogPrefix, err)
	}
	return collectMessages(rows)
}

// SearchMessages returns messages in channel whose text contains query,
// ignoring case, newest first. query is matched literally: % and _ are not
// wildcards.
func (r *Repository) SearchMessages(ctx context.Context, channel, query string, limit int) ([]archive.StoredMessage, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.pool.Query(ctx,
		`SELECT channel, ts, user_id, subtype, text, thread_ts, posted_at, raw
		 FROM archive_messages
		 WHERE channel = $1 AND text ILIKE '%' || $2 || '%' ESCAPE '\'
		 ORDER BY posted_at DESC, ts DESC
		 LIMIT $3`, channel, escapeLike(query), limit)
	if err != nil {
		return nil, fmt.Errorf("%s - SearchMessages failed: %w", repoLogPrefix, err)
	}
	return collectMessages(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes the LIKE metacharacters in s so it matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ChannelCursor is one row of archive_cursors.
type ChannelCursor struct {
	Channel   string
	Cursor    string
	Backfill  string
	UpdatedAt time.Time
}

// ListCursors returns every synced channel, ordered by channel.
func (r *Repository) ListCursors(ctx context.Context) ([]ChannelCursor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel, cursor, backfill, updated_at FROM archive_cursors ORDER BY channel`)
	if err != nil {
		return nil, fmt.Errorf("%s - ListCursors failed: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var out []ChannelCursor
	for rows.Next() {
		var c ChannelCursor
		if err := rows.Scan(&c.Channel, &c.Cursor, &c.Backfill, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s - scan cursor: %w", repoLogPrefix, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func collectMessages(rows pgx.Rows) ([]archive.StoredMessage, error) {
	defer rows.Close()
	var out []archive.StoredMessage
	for rows.Next() {
		var m archive.StoredMessage
		if err := rows.Scan(&m.Channel, &m.Ts, &m.User, &m.Subtype, &m.Text, &m.ThreadTs, &m.PostedAt, &m.Raw); err != nil {
			return nil, fmt.Errorf("%s - scan message: %w", repoLogPrefix, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s - rows: %w", repoLogPrefix, err)
	}
	return out, nil
}
