// Package auth wraps auth.test and auth.revoke.
package auth

import (
	"context"

	"github.com/morezero/slackapi/pkg/slack"
)

// ErrorCode is an auth.* error code.
type ErrorCode string

// Error is the error type returned by this package's calls.
type Error = slack.Error[ErrorCode]

var errorTable = slack.NewErrorTable[ErrorCode]()

var (
	methodRevoke = slack.Method{Name: "auth.revoke"}
	methodTest   = slack.Method{Name: "auth.test"}
)

// RevokeRequest is the input to auth.revoke.
type RevokeRequest struct {
	// Test only checks the token without revoking it.
	Test *bool `param:"test"`
}

type RevokeResponse struct {
	OK      bool `json:"ok"`
	Revoked bool `json:"revoked"`
}

// Revoke calls auth.revoke for the client's token.
func Revoke(ctx context.Context, c *slack.Client, req *RevokeRequest) (*RevokeResponse, error) {
	return slack.Call[RevokeResponse](ctx, c, methodRevoke, req, errorTable)
}

// TestResponse identifies the token's owner.
type TestResponse struct {
	OK                  bool         `json:"ok"`
	URL                 string       `json:"url"`
	Team                string       `json:"team"`
	User                string       `json:"user"`
	TeamID              slack.TeamID `json:"team_id"`
	UserID              slack.UserID `json:"user_id"`
	BotID               *slack.BotID `json:"bot_id,omitempty"`
	EnterpriseID        *string      `json:"enterprise_id,omitempty"`
	IsEnterpriseInstall *bool        `json:"is_enterprise_install,omitempty"`
}

// Test calls auth.test.
func Test(ctx context.Context, c *slack.Client) (*TestResponse, error) {
	return slack.Call[TestResponse](ctx, c, methodTest, nil, errorTable)
}
