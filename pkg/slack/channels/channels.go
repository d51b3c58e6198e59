// Package channels wraps the channels.* methods: create, archive and rename
// public channels, manage membership, set topic and purpose, and read history.
package channels

import (
	"context"

	"github.com/morezero/slackapi/pkg/slack"
)

// ErrorCode is a channels.* error code.
type ErrorCode string

const (
	ChannelNotFound        ErrorCode = "channel_not_found"
	UserNotFound           ErrorCode = "user_not_found"
	NotInChannel           ErrorCode = "not_in_channel"
	AlreadyInChannel       ErrorCode = "already_in_channel"
	AlreadyArchived        ErrorCode = "already_archived"
	NotArchived            ErrorCode = "not_archived"
	IsArchived             ErrorCode = "is_archived"
	CantArchiveGeneral     ErrorCode = "cant_archive_general"
	CantInviteSelf         ErrorCode = "cant_invite_self"
	CantInvite             ErrorCode = "cant_invite"
	CantKickSelf           ErrorCode = "cant_kick_self"
	CantKickFromGeneral    ErrorCode = "cant_kick_from_general"
	CantLeaveGeneral       ErrorCode = "cant_leave_general"
	NameTaken              ErrorCode = "name_taken"
	NoChannel              ErrorCode = "no_channel"
	InvalidName            ErrorCode = "invalid_name"
	InvalidNameRequired    ErrorCode = "invalid_name_required"
	InvalidNamePunctuation ErrorCode = "invalid_name_punctuation"
	InvalidNameMaxlength   ErrorCode = "invalid_name_maxlength"
	InvalidNameSpecials    ErrorCode = "invalid_name_specials"
	InvalidTimestamp       ErrorCode = "invalid_timestamp"
	InvalidTsLatest        ErrorCode = "invalid_ts_latest"
	InvalidTsOldest        ErrorCode = "invalid_ts_oldest"
	InvalidCursor          ErrorCode = "invalid_cursor"
	ThreadNotFound         ErrorCode = "thread_not_found"
	TooLong                ErrorCode = "too_long"
	UserIsBot              ErrorCode = "user_is_bot"
	UserIsRestricted       ErrorCode = "user_is_restricted"
	UserIsUltraRestricted  ErrorCode = "user_is_ultra_restricted"
	RestrictedAction       ErrorCode = "restricted_action"
	NotAuthorized          ErrorCode = "not_authorized"
)

// Error is the error type returned by this package's calls.
type Error = slack.Error[ErrorCode]

var errorTable = slack.NewErrorTable(
	ChannelNotFound, UserNotFound, NotInChannel, AlreadyInChannel,
	AlreadyArchived, NotArchived, IsArchived, CantArchiveGeneral,
	CantInviteSelf, CantInvite, CantKickSelf, CantKickFromGeneral,
	CantLeaveGeneral, NameTaken, NoChannel, InvalidName,
	InvalidNameRequired, InvalidNamePunctuation, InvalidNameMaxlength, InvalidNameSpecials,
	InvalidTimestamp, InvalidTsLatest, InvalidTsOldest, InvalidCursor,
	ThreadNotFound, TooLong, UserIsBot, UserIsRestricted,
	UserIsUltraRestricted, RestrictedAction, NotAuthorized,
)

func init() {
	slack.RegisterDescriptions(map[string]string{
		string(ChannelNotFound):    "Value passed for channel was invalid.",
		string(UserNotFound):       "Value passed for user was invalid.",
		string(NotInChannel):       "The user is not a member of the channel.",
		string(AlreadyArchived):    "Channel has already been archived.",
		string(NotArchived):        "Channel is not archived.",
		string(IsArchived):         "Channel has been archived.",
		string(CantArchiveGeneral): "You cannot archive the general channel.",
		string(NameTaken):          "A channel cannot be created with the given name.",
		string(InvalidTsLatest):    "Value passed for latest was invalid.",
		string(InvalidTsOldest):    "Value passed for oldest was invalid.",
		string(RestrictedAction):   "A team preference prevents the authenticated user from performing this action.",
	})
}

var (
	methodArchive    = slack.Method{Name: "channels.archive"}
	methodCreate     = slack.Method{Name: "channels.create"}
	methodHistory    = slack.Method{Name: "channels.history"}
	methodInfo       = slack.Method{Name: "channels.info"}
	methodInvite     = slack.Method{Name: "channels.invite"}
	methodJoin       = slack.Method{Name: "channels.join"}
	methodKick       = slack.Method{Name: "channels.kick"}
	methodLeave      = slack.Method{Name: "channels.leave"}
	methodList       = slack.Method{Name: "channels.list"}
	methodMark       = slack.Method{Name: "channels.mark"}
	methodRename     = slack.Method{Name: "channels.rename"}
	methodReplies    = slack.Method{Name: "channels.replies"}
	methodSetPurpose = slack.Method{Name: "channels.setPurpose"}
	methodSetTopic   = slack.Method{Name: "channels.setTopic"}
	methodUnarchive  = slack.Method{Name: "channels.unarchive"}
)

type ArchiveRequest struct {
	Channel slack.ChannelID `param:"channel"`
}

type ArchiveResponse struct {
	OK bool `json:"ok"`
}

// Archive calls channels.archive.
func Archive(ctx context.Context, c *slack.Client, req *ArchiveRequest) (*ArchiveResponse, error) {
	return slack.Call[ArchiveResponse](ctx, c, methodArchive, req, errorTable)
}

type CreateRequest struct {
	Name string `param:"name"`
	// Validate rejects names that would otherwise be silently cleaned up.
	Validate *bool `param:"validate"`
}

type CreateResponse struct {
	OK      bool           `json:"ok"`
	Channel *slack.Channel `json:"channel"`
}

// Create calls channels.create.
func Create(ctx context.Context, c *slack.Client, req *CreateRequest) (*CreateResponse, error) {
	return slack.Call[CreateResponse](ctx, c, methodCreate, req, errorTable)
}

// HistoryRequest selects a window of channel messages. Latest and Oldest
// bound the window and are sent exactly as Slack produced them.
type HistoryRequest struct {
	Channel   slack.ChannelID  `param:"channel"`
	Latest    *slack.Timestamp `param:"latest"`
	Oldest    *slack.Timestamp `param:"oldest"`
	Inclusive *bool            `param:"inclusive"`
	Count     *int             `param:"count"`
	Unreads   *bool            `param:"unreads"`
}

// HistoryResponse is one page of messages, newest first.
type HistoryResponse struct {
	OK                  bool                    `json:"ok"`
	Latest              *slack.Timestamp        `json:"latest,omitempty"`
	Messages            []slack.Message         `json:"messages"`
	HasMore             *bool                   `json:"has_more,omitempty"`
	IsLimited           *bool                   `json:"is_limited,omitempty"`
	PinCount            *int                    `json:"pin_count,omitempty"`
	UnreadCountDisplay  *int                    `json:"unread_count_display,omitempty"`
	ChannelActionsTs    *slack.Timestamp        `json:"channel_actions_ts,omitempty"`
	ChannelActionsCount *int                    `json:"channel_actions_count,omitempty"`
	ResponseMetadata    *slack.ResponseMetadata `json:"response_metadata,omitempty"`
}

// History calls channels.history.
func History(ctx context.Context, c *slack.Client, req *HistoryRequest) (*HistoryResponse, error) {
	return slack.Call[HistoryResponse](ctx, c, methodHistory, req, errorTable)
}

type InfoRequest struct {
	Channel       slack.ChannelID `param:"channel"`
	IncludeLocale *bool           `param:"include_locale"`
}

type InfoResponse struct {
	OK      bool           `json:"ok"`
	Channel *slack.Channel `json:"channel"`
}

// Info calls channels.info.
func Info(ctx context.Context, c *slack.Client, req *InfoRequest) (*InfoResponse, error) {
	return slack.Call[InfoResponse](ctx, c, methodInfo, req, errorTable)
}

type InviteRequest struct {
	Channel slack.ChannelID `param:"channel"`
	User    slack.UserID    `param:"user"`
}

type InviteResponse struct {
	OK      bool           `json:"ok"`
	Channel *slack.Channel `json:"channel"`
}

// Invite calls channels.invite.
func Invite(ctx context.Context, c *slack.Client, req *InviteRequest) (*InviteResponse, error) {
	return slack.Call[InviteResponse](ctx, c, methodInvite, req, errorTable)
}

type JoinRequest struct {
	Name     string `param:"name"`
	Validate *bool  `param:"validate"`
}

type JoinResponse struct {
	OK               bool           `json:"ok"`
	Channel          *slack.Channel `json:"channel"`
	AlreadyInChannel *bool          `json:"already_in_channel,omitempty"`
}

// Join calls channels.join.
func Join(ctx context.Context, c *slack.Client, req *JoinRequest) (*JoinResponse, error) {
	return slack.Call[JoinResponse](ctx, c, methodJoin, req, errorTable)
}

type KickRequest struct {
	Channel slack.ChannelID `param:"channel"`
	User    slack.UserID    `param:"user"`
}

type KickResponse struct {
	OK bool `json:"ok"`
}

// Kick calls channels.kick.
func Kick(ctx context.Context, c *slack.Client, req *KickRequest) (*KickResponse, error) {
	return slack.Call[KickResponse](ctx, c, methodKick, req, errorTable)
}

type LeaveRequest struct {
	Channel slack.ChannelID `param:"channel"`
}

type LeaveResponse struct {
	OK           bool  `json:"ok"`
	NotInChannel *bool `json:"not_in_channel,omitempty"`
}

// Leave calls channels.leave.
func Leave(ctx context.Context, c *slack.Client, req *LeaveRequest) (*LeaveResponse, error) {
	return slack.Call[LeaveResponse](ctx, c, methodLeave, req, errorTable)
}

type ListRequest struct {
	Cursor          *slack.Cursor `param:"cursor"`
	ExcludeArchived *bool         `param:"exclude_archived"`
	ExcludeMembers  *bool         `param:"exclude_members"`
	Limit           *int          `param:"limit"`
}

type ListResponse struct {
	OK               bool                    `json:"ok"`
	Channels         []slack.Channel         `json:"channels"`
	ResponseMetadata *slack.ResponseMetadata `json:"response_metadata,omitempty"`
}

// List calls channels.list.
func List(ctx context.Context, c *slack.Client, req *ListRequest) (*ListResponse, error) {
	return slack.Call[ListResponse](ctx, c, methodList, req, errorTable)
}

type MarkRequest struct {
	Channel slack.ChannelID `param:"channel"`
	Ts      slack.Timestamp `param:"ts"`
}

type MarkResponse struct {
	OK bool `json:"ok"`
}

// Mark calls channels.mark.
func Mark(ctx context.Context, c *slack.Client, req *MarkRequest) (*MarkResponse, error) {
	return slack.Call[MarkResponse](ctx, c, methodMark, req, errorTable)
}

type RenameRequest struct {
	Channel  slack.ChannelID `param:"channel"`
	Name     string          `param:"name"`
	Validate *bool           `param:"validate"`
}

type RenameResponse struct {
	OK      bool           `json:"ok"`
	Channel *slack.Channel `json:"channel"`
}

// Rename calls channels.rename.
func Rename(ctx context.Context, c *slack.Client, req *RenameRequest) (*RenameResponse, error) {
	return slack.Call[RenameResponse](ctx, c, methodRename, req, errorTable)
}

type RepliesRequest struct {
	Channel  slack.ChannelID `param:"channel"`
	ThreadTs slack.Timestamp `param:"thread_ts"`
}

type RepliesResponse struct {
	OK       bool            `json:"ok"`
	Messages []slack.Message `json:"messages"`
	HasMore  *bool           `json:"has_more,omitempty"`
}

// Replies calls channels.replies.
func Replies(ctx context.Context, c *slack.Client, req *RepliesRequest) (*RepliesResponse, error) {
	return slack.Call[RepliesResponse](ctx, c, methodReplies, req, errorTable)
}

type SetPurposeRequest struct {
	Channel slack.ChannelID `param:"channel"`
	Purpose string          `param:"purpose"`
}

type SetPurposeResponse struct {
	OK      bool   `json:"ok"`
	Purpose string `json:"purpose"`
}

// SetPurpose calls channels.setPurpose.
func SetPurpose(ctx context.Context, c *slack.Client, req *SetPurposeRequest) (*SetPurposeResponse, error) {
	return slack.Call[SetPurposeResponse](ctx, c, methodSetPurpose, req, errorTable)
}

type SetTopicRequest struct {
	Channel slack.ChannelID `param:"channel"`
	Topic   string          `param:"topic"`
}

type SetTopicResponse struct {
	OK    bool   `json:"ok"`
	Topic string `json:"topic"`
}

// SetTopic calls channels.setTopic.
func SetTopic(ctx context.Context, c *slack.Client, req *SetTopicRequest) (*SetTopicResponse, error) {
	return slack.Call[SetTopicResponse](ctx, c, methodSetTopic, req, errorTable)
}

type UnarchiveRequest struct {
	Channel slack.ChannelID `param:"channel"`
}

type UnarchiveResponse struct {
	OK bool `json:"ok"`
}

// Unarchive calls channels.unarchive.
func Unarchive(ctx context.Context, c *slack.Client, req *UnarchiveRequest) (*UnarchiveResponse, error) {
	return slack.Call[UnarchiveResponse](ctx, c, methodUnarchive, req, errorTable)
}
