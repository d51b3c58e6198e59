// Package relay carries Slack Web API calls over COMMS request/reply so that
// internal services reach Slack through a single egress process.
//
// A caller plugs Transport into slack.NewClient; the relay process runs a
// Dispatcher that validates each Request and forwards it to Slack over HTTP.
package relay

import (
	"fmt"

	"github.com/morezero/slackapi/pkg/slack"
)

// ProtocolVersion is the envelope version this package speaks.
const ProtocolVersion = "1.0.0"

// SupportedVersions lists every envelope version a Dispatcher can serve.
var SupportedVersions = []string{ProtocolVersion}

// Relay error codes.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnsupportedVersion = "UNSUPPORTED_VERSION"
	CodeForbiddenURL       = "FORBIDDEN_URL"
	CodeUpstreamStatus     = "UPSTREAM_STATUS"
	CodeUpstreamFailure    = "UPSTREAM_FAILURE"
)

// Request is the JSON envelope for one relayed Slack call.
type Request struct {
	ID      string       `json:"id"`
	Version string       `json:"version"`
	URL     string       `json:"url"`
	Token   string       `json:"token,omitempty"`
	Params  slack.Params `json:"params"`
}

// Response is the JSON envelope answering a Request. On success Body holds
// the Slack response body byte-for-byte.
type Response struct {
	ID    string       `json:"id"`
	OK    bool         `json:"ok"`
	Body  []byte       `json:"body,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail holds structured relay error information.
type ErrorDetail struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	StatusCode int    `json:"statusCode,omitempty"`
	RetryAfter string `json:"retryAfter,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return fmt.Sprintf("relay: %s: %s", e.Code, e.Message)
}

// Unwrap exposes the upstream HTTP status as a *slack.StatusError, so callers
// see the same error through the relay as over direct HTTP.
func (e *ErrorDetail) Unwrap() error {
	if e.StatusCode == 0 {
		return nil
	}
	return &slack.StatusError{StatusCode: e.StatusCode, RetryAfter: e.RetryAfter}
}

func errorResponse(id, code, message string, retryable bool) *Response {
	return &Response{
		ID: id,
		OK: false,
		Error: &ErrorDetail{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}
