// Package api wraps api.test, which echoes its arguments and can be asked
// to fail with a chosen error code.
package api

import (
	"context"

	"github.com/morezero/slackapi/pkg/slack"
)

// ErrorCode is an api.* error code. The family declares none beyond the
// common ones, so any code requested through TestRequest.Error that is not
// common is reported as unknown.
type ErrorCode string

// Error is the error type returned by this package's calls.
type Error = slack.Error[ErrorCode]

var errorTable = slack.NewErrorTable[ErrorCode]()

var methodTest = slack.Method{Name: "api.test"}

// TestRequest is the input to api.test.
type TestRequest struct {
	// Error makes Slack fail the call with this code.
	Error *string `param:"error"`
	// Foo is echoed back in TestResponse.Args.
	Foo *string `param:"foo"`
}

// TestResponse echoes the request arguments.
type TestResponse struct {
	OK   bool              `json:"ok"`
	Args map[string]string `json:"args"`
}

// Test calls api.test.
func Test(ctx context.Context, c *slack.Client, req *TestRequest) (*TestResponse, error) {
	return slack.Call[TestResponse](ctx, c, methodTest, req, errorTable)
}
