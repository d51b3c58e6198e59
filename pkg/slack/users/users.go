// Package users wraps the users.* methods.
package users

import (
	"context"

	"github.com/morezero/slackapi/pkg/slack"
)

// ErrorCode is a users.* error code.
type ErrorCode string

const (
	UserNotFound    ErrorCode = "user_not_found"
	UserNotVisible  ErrorCode = "user_not_visible"
	InvalidPresence ErrorCode = "invalid_presence"
	InvalidCursor   ErrorCode = "invalid_cursor"
	LimitRequired   ErrorCode = "limit_required"
)

// Error is the error type returned by this package's calls.
type Error = slack.Error[ErrorCode]

var errorTable = slack.NewErrorTable(UserNotFound, UserNotVisible, InvalidPresence, InvalidCursor, LimitRequired)

var (
	methodDeletePhoto = slack.Method{Name: "users.deletePhoto"}
	methodGetPresence = slack.Method{Name: "users.getPresence"}
	methodIdentity    = slack.Method{Name: "users.identity"}
	methodInfo        = slack.Method{Name: "users.info"}
	methodList        = slack.Method{Name: "users.list"}
	methodPrefs       = slack.Method{Name: "users.prefs.get"}
	methodSetActive   = slack.Method{Name: "users.setActive"}
	methodSetPresence = slack.Method{Name: "users.setPresence"}
)

// DeletePhoto calls users.deletePhoto.
func DeletePhoto(ctx context.Context, c *slack.Client) (*slack.Ack, error) {
	return slack.Call[slack.Ack](ctx, c, methodDeletePhoto, nil, errorTable)
}

type GetPresenceRequest struct {
	// User defaults to the caller when nil.
	User *slack.UserID `param:"user"`
}

type GetPresenceResponse struct {
	OK              bool    `json:"ok"`
	Presence        *string `json:"presence,omitempty"`
	Online          *bool   `json:"online,omitempty"`
	AutoAway        *bool   `json:"auto_away,omitempty"`
	ManualAway      *bool   `json:"manual_away,omitempty"`
	ConnectionCount *int    `json:"connection_count,omitempty"`
	LastActivity    *int64  `json:"last_activity,omitempty"`
}

// GetPresence calls users.getPresence.
func GetPresence(ctx context.Context, c *slack.Client, req *GetPresenceRequest) (*GetPresenceResponse, error) {
	return slack.Call[GetPresenceResponse](ctx, c, methodGetPresence, req, errorTable)
}

type IdentityResponse struct {
	OK   bool        `json:"ok"`
	Team *slack.Team `json:"team,omitempty"`
	User *slack.User `json:"user,omitempty"`
}

// Identity calls users.identity.
func Identity(ctx context.Context, c *slack.Client) (*IdentityResponse, error) {
	return slack.Call[IdentityResponse](ctx, c, methodIdentity, nil, errorTable)
}

type InfoRequest struct {
	User          slack.UserID `param:"user"`
	IncludeLocale *bool        `param:"include_locale"`
}

type InfoResponse struct {
	OK   bool        `json:"ok"`
	User *slack.User `json:"user,omitempty"`
}

// Info calls users.info.
func Info(ctx context.Context, c *slack.Client, req *InfoRequest) (*InfoResponse, error) {
	return slack.Call[InfoResponse](ctx, c, methodInfo, req, errorTable)
}

// ListRequest pages through members. Without Limit Slack tries to return
// everyone at once, which fails on large workspaces.
type ListRequest struct {
	Cursor        *slack.Cursor `param:"cursor"`
	Limit         *int          `param:"limit"`
	IncludeLocale *bool         `param:"include_locale"`
	Presence      *bool         `param:"presence"`
}

type ListResponse struct {
	OK               bool                    `json:"ok"`
	Members          []slack.User            `json:"members"`
	CacheTs          *slack.Timestamp        `json:"cache_ts,omitempty"`
	ResponseMetadata *slack.ResponseMetadata `json:"response_metadata,omitempty"`
	IsLimited        *bool                   `json:"is_limited,omitempty"`
}

// List calls users.list.
func List(ctx context.Context, c *slack.Client, req *ListRequest) (*ListResponse, error) {
	return slack.Call[ListResponse](ctx, c, methodList, req, errorTable)
}

// ListAll follows response_metadata.next_cursor until it is empty and
// returns every member.
func ListAll(ctx context.Context, c *slack.Client, req ListRequest) ([]slack.User, error) {
	var members []slack.User
	for {
		resp, err := List(ctx, c, &req)
		if err != nil {
			return nil, err
		}
		members = append(members, resp.Members...)
		if resp.ResponseMetadata == nil || resp.ResponseMetadata.NextCursor == "" {
			return members, nil
		}
		next := resp.ResponseMetadata.NextCursor
		req.Cursor = &next
	}
}

type PrefsResponse struct {
	OK    bool  `json:"ok"`
	Prefs Prefs `json:"prefs"`
}

type Prefs struct {
	MutedChannels []slack.ChannelID `json:"muted_channels"`
}

// GetPrefs calls users.prefs.get.
func GetPrefs(ctx context.Context, c *slack.Client) (*PrefsResponse, error) {
	return slack.Call[PrefsResponse](ctx, c, methodPrefs, nil, errorTable)
}

// SetActive calls users.setActive.
func SetActive(ctx context.Context, c *slack.Client) (*slack.Ack, error) {
	return slack.Call[slack.Ack](ctx, c, methodSetActive, nil, errorTable)
}

// Presence is a manually set presence.
type Presence string

const (
	PresenceAuto Presence = "auto"
	PresenceAway Presence = "away"
)

type SetPresenceRequest struct {
	Presence Presence `param:"presence"`
}

// SetPresence calls users.setPresence.
func SetPresence(ctx context.Context, c *slack.Client, req *SetPresenceRequest) (*slack.Ack, error) {
	return slack.Call[slack.Ack](ctx, c, methodSetPresence, req, errorTable)
}
