// Package archive copies channel history into durable storage, resuming each
// channel from the sync state stored by the previous run.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/morezero/slackapi/pkg/slack"
)

// StoredMessage is one archived message. (Channel, Ts) is unique.
type StoredMessage struct {
	Channel  string
	Ts       string
	User     string
	Subtype  string
	Text     string
	ThreadTs string
	PostedAt time.Time
	Raw      []byte
}

// ChannelState is the stored sync position of one channel. All values are
// timestamps in their text form; "" means unset.
type ChannelState struct {
	// Cursor is the newest ts up to which the channel is completely archived.
	Cursor string
	// Backfill is the oldest ts reached by a run that stopped early. Messages
	// between Cursor and Backfill are still missing.
	Backfill string
	// Target becomes Cursor once the backfill reaches it.
	Target string
}

// Backfilling reports whether an earlier run left a gap to fill.
func (s ChannelState) Backfilling() bool {
	return s.Backfill != ""
}

// Store persists archived messages and per-channel sync state.
type Store interface {
	// State returns the channel's stored state, zero if it was never synced.
	State(ctx context.Context, channel string) (ChannelState, error)
	// SaveBatch upserts msgs and replaces the channel state in one transaction.
	SaveBatch(ctx context.Context, channel string, msgs []StoredMessage, state ChannelState) error
	// CountMessages returns how many messages are archived for channel.
	CountMessages(ctx context.Context, channel string) (int64, error)
}

// NewStoredMessage converts a decoded message. Messages without a ts cannot
// be keyed and are rejected.
func NewStoredMessage(channel string, m *slack.Message) (StoredMessage, error) {
	if m.Ts == nil {
		return StoredMessage{}, fmt.Errorf("archive: message in %s has no ts", channel)
	}
	raw := []byte(m.Raw)
	if len(raw) == 0 {
		var err error
		if raw, err = json.Marshal(m); err != nil {
			return StoredMessage{}, fmt.Errorf("archive: encode message %s: %w", m.Ts, err)
		}
	}
	stored := StoredMessage{
		Channel:  channel,
		Ts:       m.Ts.String(),
		User:     string(m.User),
		Subtype:  m.Subtype,
		Text:     m.Text,
		PostedAt: m.Ts.Time(),
		Raw:      raw,
	}
	if m.ThreadTs != nil {
		stored.ThreadTs = m.ThreadTs.String()
	}
	return stored, nil
}
