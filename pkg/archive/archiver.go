package archive

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/morezero/slackapi/pkg/events"
	"github.com/morezero/slackapi/pkg/slack"
	"github.com/morezero/slackapi/pkg/slack/channels"
)

const logPrefix = "archive:archiver"

const (
	maxRateLimitRetries = 3
	maxRetryWait        = time.Minute
)

// Archiver syncs channel history into a Store.
type Archiver struct {
	client    *slack.Client
	store     Store
	publisher events.EventPublisher
	pageSize  int
	maxPages  int
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewArchiverParams holds parameters for NewArchiver. A nil Publisher
// publishes nothing; a zero PageSize uses DefaultPageSize.
type NewArchiverParams struct {
	Client    *slack.Client
	Store     Store
	Publisher events.EventPublisher
	PageSize  int
	MaxPages  int
}

// NewArchiver creates an Archiver.
func NewArchiver(params NewArchiverParams) *Archiver {
	a := &Archiver{
		client:    params.Client,
		store:     params.Store,
		publisher: params.Publisher,
		pageSize:  params.PageSize,
		maxPages:  params.MaxPages,
		sleep:     sleepContext,
	}
	if a.publisher == nil {
		a.publisher = &events.NoOpPublisher{}
	}
	if a.pageSize <= 0 {
		a.pageSize = DefaultPageSize
	}
	return a
}

// NewArchiverForJob creates an Archiver using the job's paging settings.
func NewArchiverForJob(client *slack.Client, store Store, publisher events.EventPublisher, job *Job) *Archiver {
	return NewArchiver(NewArchiverParams{
		Client:    client,
		Store:     store,
		Publisher: publisher,
		PageSize:  job.PageSize,
		MaxPages:  job.MaxPages,
	})
}

// SyncResult summarises one channel sync.
type SyncResult struct {
	Channel        string
	Messages       int
	Pages          int
	PreviousCursor string
	Cursor         string
	// Resumed is set when the run continued the backfill of an earlier run.
	Resumed bool
	// Truncated is set when MaxPages stopped the run before it reached the
	// cursor. Backfill then holds the oldest ts reached, and the next run
	// continues below it.
	Truncated bool
	Backfill  string
}

// SyncChannel fetches every message newer than the stored cursor, newest
// page first, and saves them with the new state in one batch. When an earlier
// run stopped at MaxPages, the run continues below that run's oldest message
// instead, and the cursor moves only once the gap is closed.
func (a *Archiver) SyncChannel(ctx context.Context, channel string) (*SyncResult, error) {
	prev, err := a.store.State(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("%s - read state for %s: %w", logPrefix, channel, err)
	}
	result := &SyncResult{
		Channel:        channel,
		PreviousCursor: prev.Cursor,
		Cursor:         prev.Cursor,
		Resumed:        prev.Backfilling(),
	}

	req := channels.HistoryRequest{Channel: slack.ChannelID(channel), Count: &a.pageSize}
	if req.Oldest, err = parseStateTs(prev.Cursor); err != nil {
		return nil, fmt.Errorf("%s - stored cursor for %s: %w", logPrefix, channel, err)
	}
	if req.Latest, err = parseStateTs(prev.Backfill); err != nil {
		return nil, fmt.Errorf("%s - stored backfill for %s: %w", logPrefix, channel, err)
	}

	byTs := make(map[string]StoredMessage)
	var newest, oldest *slack.Timestamp
	for {
		resp, err := a.history(ctx, &req)
		if err != nil {
			return nil, err
		}
		result.Pages++

		var oldestOnPage *slack.Timestamp
		for i := range resp.Messages {
			m := &resp.Messages[i]
			if m.Ts == nil {
				slog.Warn(fmt.Sprintf("%s - skipping message without ts in %s", logPrefix, channel))
				continue
			}
			stored, err := NewStoredMessage(channel, m)
			if err != nil {
				return nil, err
			}
			byTs[stored.Ts] = stored
			if newest == nil || m.Ts.Compare(*newest) > 0 {
				newest = m.Ts
			}
			if oldestOnPage == nil || m.Ts.Compare(*oldestOnPage) < 0 {
				oldestOnPage = m.Ts
			}
		}
		if oldestOnPage != nil && (oldest == nil || oldestOnPage.Compare(*oldest) < 0) {
			oldest = oldestOnPage
		}

		hasMore := resp.HasMore != nil && *resp.HasMore
		if !hasMore || oldestOnPage == nil {
			break
		}
		if a.maxPages > 0 && result.Pages >= a.maxPages {
			result.Truncated = true
			break
		}
		req.Latest = oldestOnPage
	}

	msgs := make([]StoredMessage, 0, len(byTs))
	for _, m := range byTs {
		msgs = append(msgs, m)
	}
	result.Messages = len(msgs)

	next := nextState(prev, newest, oldest, result.Truncated)
	result.Cursor = next.Cursor
	result.Backfill = next.Backfill

	if err := a.store.SaveBatch(ctx, channel, msgs, next); err != nil {
		return nil, fmt.Errorf("%s - save %s: %w", logPrefix, channel, err)
	}
	slog.Info(fmt.Sprintf("%s - Synced %s: %d messages over %d pages, cursor %q, backfill %q",
		logPrefix, channel, result.Messages, result.Pages, result.Cursor, result.Backfill))

	event := &events.ArchivedEvent{
		RunID:          ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Channel:        channel,
		Messages:       result.Messages,
		Pages:          result.Pages,
		PreviousCursor: result.PreviousCursor,
		Cursor:         result.Cursor,
		Truncated:      result.Truncated,
		Backfill:       result.Backfill,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.publisher.PublishArchived(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish archive event for %s: %v", logPrefix, channel, err))
	}
	return result, nil
}

// nextState computes the state saved after a run that saw messages from
// oldest to newest (both nil when the run saw none).
func nextState(prev ChannelState, newest, oldest *slack.Timestamp, truncated bool) ChannelState {
	switch {
	case truncated:
		// A truncated run always saw at least one message.
		next := ChannelState{Cursor: prev.Cursor, Backfill: oldest.String(), Target: prev.Target}
		if !prev.Backfilling() {
			next.Target = newest.String()
		}
		return next
	case prev.Backfilling():
		if prev.Target != "" {
			return ChannelState{Cursor: prev.Target}
		}
		if newest != nil {
			return ChannelState{Cursor: newest.String()}
		}
		return ChannelState{Cursor: prev.Cursor}
	case newest != nil:
		return ChannelState{Cursor: newest.String()}
	}
	return ChannelState{Cursor: prev.Cursor}
}

func parseStateTs(text string) (*slack.Timestamp, error) {
	if text == "" {
		return nil, nil
	}
	var ts slack.Timestamp
	if err := ts.UnmarshalText([]byte(text)); err != nil {
		return nil, err
	}
	return &ts, nil
}

// SyncAll syncs each channel in turn. A failing channel does not stop the
// others; all failures are joined into the returned error.
func (a *Archiver) SyncAll(ctx context.Context, channelIDs []string) ([]*SyncResult, error) {
	var results []*SyncResult
	var errs []error
	for _, ch := range channelIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := a.SyncChannel(ctx, ch)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - sync %s failed: %v", logPrefix, ch, err))
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// history calls channels.history, waiting out HTTP 429 responses.
func (a *Archiver) history(ctx context.Context, req *channels.HistoryRequest) (*channels.HistoryResponse, error) {
	for attempt := 0; ; attempt++ {
		resp, err := channels.History(ctx, a.client, req)
		if err == nil {
			return resp, nil
		}
		wait, limited := rateLimitWait(err)
		if !limited || attempt >= maxRateLimitRetries {
			return nil, fmt.Errorf("%s - channels.history %s: %w", logPrefix, req.Channel, err)
		}
		slog.Warn(fmt.Sprintf("%s - rate limited on %s, retrying in %s", logPrefix, req.Channel, wait))
		if err := a.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func rateLimitWait(err error) (time.Duration, bool) {
	var statusErr *slack.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}
	wait := time.Second
	if secs, perr := strconv.Atoi(statusErr.RetryAfter); perr == nil && secs >= 0 {
		wait = time.Duration(secs) * time.Second
	}
	return min(wait, maxRetryWait), true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
