// Package events defines event types and publisher interfaces for channel
// archive events.
package events

// ArchivedEvent is emitted after a channel's history has been synced into
// the archive.
type ArchivedEvent struct {
	RunID          string `json:"runId"`
	Channel        string `json:"channel"`
	Messages       int    `json:"messages"`
	Pages          int    `json:"pages"`
	PreviousCursor string `json:"previousCursor,omitempty"`
	Cursor         string `json:"cursor,omitempty"`
	Truncated      bool   `json:"truncated,omitempty"`
	Backfill       string `json:"backfill,omitempty"`
	Timestamp      string `json:"timestamp"`
}
