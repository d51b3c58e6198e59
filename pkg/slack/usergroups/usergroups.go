// Package usergroups wraps usergroups.users.list and usergroups.users.update.
package usergroups

import (
	"context"

	"github.com/morezero/slackapi/pkg/slack"
)

// ErrorCode is a usergroups.* error code.
type ErrorCode string

const (
	NoSuchSubteam           ErrorCode = "no_such_subteam"
	InvalidUsers            ErrorCode = "invalid_users"
	PermissionDenied        ErrorCode = "permission_denied"
	PaidTeamsOnly           ErrorCode = "paid_teams_only"
	NoUsersProvided         ErrorCode = "no_users_provided"
	FailedForSomeUsers      ErrorCode = "failed_for_some_users"
	SubteamMaxUsersExceeded ErrorCode = "subteam_max_users_exceeded"
)

// Error is the error type returned by this package's calls.
type Error = slack.Error[ErrorCode]

var errorTable = slack.NewErrorTable(
	NoSuchSubteam, InvalidUsers, PermissionDenied, PaidTeamsOnly,
	NoUsersProvided, FailedForSomeUsers, SubteamMaxUsersExceeded,
)

var (
	methodListUsers   = slack.Method{Name: "usergroups.users.list"}
	methodUpdateUsers = slack.Method{Name: "usergroups.users.update"}
)

type ListUsersRequest struct {
	Usergroup       slack.UsergroupID `param:"usergroup"`
	IncludeDisabled *bool             `param:"include_disabled"`
}

type ListUsersResponse struct {
	OK    bool           `json:"ok"`
	Users []slack.UserID `json:"users"`
}

// ListUsers calls usergroups.users.list.
func ListUsers(ctx context.Context, c *slack.Client, req *ListUsersRequest) (*ListUsersResponse, error) {
	return slack.Call[ListUsersResponse](ctx, c, methodListUsers, req, errorTable)
}

// UpdateUsersRequest replaces the group's members. Users is sent as a
// comma-separated list.
type UpdateUsersRequest struct {
	Usergroup    slack.UsergroupID `param:"usergroup"`
	Users        []slack.UserID    `param:"users"`
	IncludeCount *bool             `param:"include_count"`
}

type UpdateUsersResponse struct {
	OK        bool             `json:"ok"`
	Usergroup *slack.Usergroup `json:"usergroup"`
}

// UpdateUsers calls usergroups.users.update.
func UpdateUsers(ctx context.Context, c *slack.Client, req *UpdateUsersRequest) (*UpdateUsersResponse, error) {
	return slack.Call[UpdateUsersResponse](ctx, c, methodUpdateUsers, req, errorTable)
}
