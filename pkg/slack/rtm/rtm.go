// Package rtm wraps rtm.connect and rtm.start, which open a Real Time
// Messaging session and return the websocket URL to dial.
package rtm

import (
	"context"

	"github.com/morezero/slackapi/pkg/slack"
)

// ErrorCode is an rtm.* error code.
type ErrorCode string

// MigrationInProgress means the team is moving between servers; retry later.
const MigrationInProgress ErrorCode = slack.CodeMigrationInProgress

// Error is the error type returned by this package's calls.
type Error = slack.Error[ErrorCode]

var errorTable = slack.NewErrorTable(MigrationInProgress)

var (
	methodConnect = slack.Method{Name: "rtm.connect"}
	// rtm.start only understands 1/0 booleans.
	methodStart = slack.Method{Name: "rtm.start", Bools: slack.BoolNumeric}
)

type ConnectRequest struct {
	BatchPresenceAware *bool `param:"batch_presence_aware"`
	PresenceSub        *bool `param:"presence_sub"`
}

type ConnectResponse struct {
	OK   bool         `json:"ok"`
	Self *ConnectSelf `json:"self"`
	Team *ConnectTeam `json:"team"`
	URL  string       `json:"url"`
}

type ConnectSelf struct {
	ID   slack.UserID `json:"id"`
	Name string       `json:"name"`
}

type ConnectTeam struct {
	ID     slack.TeamID `json:"id"`
	Name   string       `json:"name"`
	Domain string       `json:"domain"`
}

// Connect calls rtm.connect.
func Connect(ctx context.Context, c *slack.Client, req *ConnectRequest) (*ConnectResponse, error) {
	return slack.Call[ConnectResponse](ctx, c, methodConnect, req, errorTable)
}

// StartRequest trims or extends the rtm.start snapshot.
type StartRequest struct {
	NoUnreads          *bool `param:"no_unreads"`
	MpimAware          *bool `param:"mpim_aware"`
	NoLatest           *bool `param:"no_latest"`
	BatchPresenceAware *bool `param:"batch_presence_aware"`
	IncludeLocale      *bool `param:"include_locale"`
	PresenceSub        *bool `param:"presence_sub"`
	SimpleLatest       *bool `param:"simple_latest"`
}

// StartResponse is the workspace snapshot returned by rtm.start.
type StartResponse struct {
	OK                      bool              `json:"ok"`
	URL                     string            `json:"url"`
	Self                    *slack.User       `json:"self"`
	Team                    *slack.Team       `json:"team"`
	Users                   []slack.User      `json:"users,omitempty"`
	Channels                []slack.Channel   `json:"channels,omitempty"`
	Groups                  []slack.Group     `json:"groups,omitempty"`
	Mpims                   []slack.Mpim      `json:"mpims,omitempty"`
	Ims                     []slack.Im        `json:"ims,omitempty"`
	Bots                    []slack.Bot       `json:"bots,omitempty"`
	Subteams                *Subteams         `json:"subteams,omitempty"`
	Dnd                     *Dnd              `json:"dnd,omitempty"`
	CacheTs                 *slack.Timestamp  `json:"cache_ts,omitempty"`
	CacheVersion            *string           `json:"cache_version,omitempty"`
	CacheTsVersion          *string           `json:"cache_ts_version,omitempty"`
	LatestEventTs           *slack.Timestamp  `json:"latest_event_ts,omitempty"`
	ReadOnlyChannels        []slack.ChannelID `json:"read_only_channels,omitempty"`
	NonThreadableChannels   []slack.ChannelID `json:"non_threadable_channels,omitempty"`
	ThreadOnlyChannels      []slack.ChannelID `json:"thread_only_channels,omitempty"`
	CanManageSharedChannels *bool             `json:"can_manage_shared_channels,omitempty"`
}

// Subteams lists the user groups visible to the caller.
type Subteams struct {
	All  []slack.Usergroup   `json:"all"`
	Self []slack.UsergroupID `json:"self"`
}

// Dnd is the caller's do-not-disturb state.
type Dnd struct {
	DndEnabled     bool   `json:"dnd_enabled"`
	NextDndStartTs int64  `json:"next_dnd_start_ts"`
	NextDndEndTs   int64  `json:"next_dnd_end_ts"`
	SnoozeEnabled  bool   `json:"snooze_enabled"`
	SnoozeEndtime  *int64 `json:"snooze_endtime,omitempty"`
}

// Start calls rtm.start.
func Start(ctx context.Context, c *slack.Client, req *StartRequest) (*StartResponse, error) {
	return slack.Call[StartResponse](ctx, c, methodStart, req, errorTable)
}
