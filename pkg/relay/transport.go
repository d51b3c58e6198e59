package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/slackapi/pkg/commsutil"
	"github.com/morezero/slackapi/pkg/slack"
)

const transportLogPrefix = "relay:transport"

// DefaultRequestTimeout applies when the caller's context has no deadline.
const DefaultRequestTimeout = 35 * time.Second

// Transport implements slack.Transport by sending each call to a relay over
// COMMS request/reply.
type Transport struct {
	nc      *comms.Conn
	subject string
	version string
	timeout time.Duration
}

// NewTransportParams holds parameters for NewTransport. Zero values use
// SubjectRelay, ProtocolVersion and DefaultRequestTimeout.
type NewTransportParams struct {
	Conn    *comms.Conn
	Subject string
	Version string
	Timeout time.Duration
}

// NewTransport creates a relay-backed transport.
func NewTransport(params NewTransportParams) *Transport {
	t := &Transport{
		nc:      params.Conn,
		subject: params.Subject,
		version: params.Version,
		timeout: params.Timeout,
	}
	if t.subject == "" {
		t.subject = commsutil.SubjectRelay
	}
	if t.version == "" {
		t.version = ProtocolVersion
	}
	if t.timeout <= 0 {
		t.timeout = DefaultRequestTimeout
	}
	return t
}

var _ slack.Transport = (*Transport)(nil)

// Send relays one call and returns the Slack body unchanged. Relay-side
// failures come back as *ErrorDetail.
func (t *Transport) Send(ctx context.Context, url, token string, params slack.Params) ([]byte, error) {
	req := Request{
		ID:      NewRequestID(),
		Version: t.version,
		URL:     url,
		Token:   token,
		Params:  params,
	}
	data, err := commsutil.EncodePayload(&req)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode request: %w", transportLogPrefix, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	slog.Debug(fmt.Sprintf("%s - id=%s subject=%s url=%s", transportLogPrefix, req.ID, t.subject, url))
	msg, err := t.nc.RequestWithContext(ctx, t.subject, data)
	if err != nil {
		return nil, fmt.Errorf("%s - request %s on %s: %w", transportLogPrefix, req.ID, t.subject, err)
	}

	var resp Response
	if err := commsutil.DecodePayload(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("%s - failed to decode response to %s: %w", transportLogPrefix, req.ID, err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("%s - response id %q does not match request %s", transportLogPrefix, resp.ID, req.ID)
	}
	if !resp.OK {
		if resp.Error == nil {
			return nil, fmt.Errorf("%s - request %s failed without detail", transportLogPrefix, req.ID)
		}
		return nil, resp.Error
	}
	return resp.Body, nil
}
