package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/slackapi/pkg/commsutil"
	"github.com/morezero/slackapi/pkg/semver"
	"github.com/morezero/slackapi/pkg/slack"
)

const logPrefix = "relay:dispatcher"

// DefaultAcceptVersions admits every 1.x envelope.
const DefaultAcceptVersions = "1"

var methodNameRegex = regexp.MustCompile(`^[a-zA-Z]+(\.[a-zA-Z]+)+$`)

// Dispatcher validates relayed requests and forwards them upstream.
type Dispatcher struct {
	upstream slack.Transport
	baseURL  string
	token    string
	accept   string

	forwarded atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64
}

// NewDispatcherParams holds parameters for NewDispatcher.
type NewDispatcherParams struct {
	// Upstream performs the real call, usually a *slack.HTTPTransport.
	Upstream slack.Transport
	// BaseURL restricts forwarded URLs to BaseURL + "<method>".
	BaseURL string
	// Token is used for requests that carry none.
	Token string
	// AcceptVersions is a semver range over envelope versions.
	AcceptVersions string
}

// NewDispatcher creates a Dispatcher. Empty BaseURL and AcceptVersions use
// slack.DefaultBaseURL and DefaultAcceptVersions.
func NewDispatcher(params NewDispatcherParams) (*Dispatcher, error) {
	if params.Upstream == nil {
		return nil, fmt.Errorf("%s - upstream transport is required", logPrefix)
	}
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = slack.DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	accept := params.AcceptVersions
	if accept == "" {
		accept = DefaultAcceptVersions
	}
	if err := semver.ValidateRange(accept); err != nil {
		return nil, fmt.Errorf("%s - %w", logPrefix, err)
	}
	return &Dispatcher{
		upstream: params.Upstream,
		baseURL:  baseURL,
		token:    params.Token,
		accept:   accept,
	}, nil
}

// Stats counts dispatched requests by outcome.
type Stats struct {
	Forwarded int64 `json:"forwarded"`
	Rejected  int64 `json:"rejected"`
	Failed    int64 `json:"failed"`
}

// Stats returns a snapshot of the dispatch counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Forwarded: d.forwarded.Load(),
		Rejected:  d.rejected.Load(),
		Failed:    d.failed.Load(),
	}
}

// Dispatch validates req, forwards it upstream and returns the response.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	slog.Debug(fmt.Sprintf("%s - id=%s version=%s url=%s", logPrefix, req.ID, req.Version, req.URL))

	if resp := d.validate(req); resp != nil {
		d.rejected.Add(1)
		slog.Warn(fmt.Sprintf("%s - rejected %s: %s", logPrefix, req.ID, resp.Error.Message))
		return resp
	}

	token := req.Token
	if token == "" {
		token = d.token
	}

	body, err := d.upstream.Send(ctx, req.URL, token, req.Params)
	if err != nil {
		d.failed.Add(1)
		slog.Error(fmt.Sprintf("%s - upstream call for %s failed: %v", logPrefix, req.ID, err))
		return upstreamErrorToResponse(req.ID, err)
	}

	d.forwarded.Add(1)
	return &Response{ID: req.ID, OK: true, Body: body}
}

func (d *Dispatcher) validate(req *Request) *Response {
	if err := ValidateRequestID(req.ID); err != nil {
		return errorResponse(req.ID, CodeInvalidRequest, err.Error(), false)
	}
	if err := semver.ValidateVersion(req.Version); err != nil {
		return errorResponse(req.ID, CodeInvalidRequest, err.Error(), false)
	}
	if !semver.SatisfiesRange(req.Version, d.accept) {
		msg := fmt.Sprintf("version %s is outside accepted range %q", req.Version, d.accept)
		if newest := semver.Newest(SupportedVersions, d.accept); newest != "" {
			msg += fmt.Sprintf("; newest supported is %s", newest)
		}
		return errorResponse(req.ID, CodeUnsupportedVersion, msg, false)
	}
	method, ok := strings.CutPrefix(req.URL, d.baseURL)
	if !ok || !methodNameRegex.MatchString(method) {
		return errorResponse(req.ID, CodeForbiddenURL, fmt.Sprintf("url %q is not a method under %s", req.URL, d.baseURL), false)
	}
	return nil
}

func upstreamErrorToResponse(id string, err error) *Response {
	var statusErr *slack.StatusError
	if errors.As(err, &statusErr) {
		retryable := statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
		resp := errorResponse(id, CodeUpstreamStatus, statusErr.Error(), retryable)
		resp.Error.StatusCode = statusErr.StatusCode
		resp.Error.RetryAfter = statusErr.RetryAfter
		return resp
	}
	return errorResponse(id, CodeUpstreamFailure, err.Error(), true)
}

// HandleMessage decodes one request envelope, dispatches it and returns the
// encoded response. Undecodable input gets an INVALID_REQUEST reply.
func (d *Dispatcher) HandleMessage(ctx context.Context, data []byte) []byte {
	var req Request
	var resp *Response
	if err := commsutil.DecodePayload(data, &req); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to decode request: %v", logPrefix, err))
		d.rejected.Add(1)
		resp = errorResponse("", CodeInvalidRequest, "Failed to decode request", false)
	} else {
		resp = d.Dispatch(ctx, &req)
	}

	out, err := commsutil.EncodePayload(resp)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - failed to encode response: %v", logPrefix, err))
		out, _ = commsutil.EncodePayload(errorResponse(resp.ID, CodeUpstreamFailure, "Failed to encode response", true))
	}
	return out
}

// Serve queue-subscribes the dispatcher to subject, so several relays can
// share the load. Each request runs under its own timeout derived from ctx.
func (d *Dispatcher) Serve(ctx context.Context, nc *comms.Conn, subject, queue string, timeout time.Duration) (*comms.Subscription, error) {
	sub, err := nc.QueueSubscribe(subject, queue, func(msg *comms.Msg) {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := msg.Respond(d.HandleMessage(reqCtx, msg.Data)); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to respond on %s: %v", logPrefix, msg.Reply, err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, subject, err)
	}
	slog.Info(fmt.Sprintf("%s - Serving %s (queue %q)", logPrefix, subject, queue))
	return sub, nil
}
