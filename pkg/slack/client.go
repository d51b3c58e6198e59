// Package slack is a typed client core for the Slack Web API: request
// encoding, response decoding against per-method schemas and error tables,
// and the Timestamp and ObjectOrEmpty codecs shared by all method families.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const logPrefix = "slack:client"

// DefaultBaseURL is the Slack Web API root.
const DefaultBaseURL = "https://slack.com/api/"

// Method describes one Slack Web API method.
type Method struct {
	// Name is the dotted method name, e.g. "channels.history".
	Name string
	// Bools is the boolean parameter encoding the method accepts.
	Bools BoolEncoding
}

// Client binds a Transport to a token and base URL. It holds no mutable
// state and is safe for concurrent use if its Transport is.
type Client struct {
	transport Transport
	token     string
	baseURL   string
}

// NewClientParams configures NewClient. Zero values use defaults.
type NewClientParams struct {
	Transport Transport
	Token     string
	BaseURL   string
}

// NewClient creates a Client.
func NewClient(params NewClientParams) *Client {
	transport := params.Transport
	if transport == nil {
		transport = NewHTTPTransport(nil)
	}
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{transport: transport, token: params.Token, baseURL: baseURL}
}

// URL returns the endpoint URL for m.
func (c *Client) URL(m Method) string {
	return c.baseURL + m.Name
}

// BaseURL returns the configured API root, always ending in '/'.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call encodes req, sends it to m and decodes the body into Resp, classifying
// failures against table. Parameter encoding failures are returned as plain
// errors before anything is sent. All other failures are *Error[C].
func Call[Resp any, C Code](ctx context.Context, c *Client, m Method, req any, table *ErrorTable[C]) (*Resp, error) {
	params, err := EncodeParams(req, m.Bools)
	if err != nil {
		return nil, fmt.Errorf("%s - %s: %w", logPrefix, m.Name, err)
	}

	url := c.URL(m)
	slog.Debug(fmt.Sprintf("%s - Calling %s with %d params", logPrefix, m.Name, len(params)))

	body, err := c.transport.Send(ctx, url, c.token, params)
	if err != nil {
		slog.Debug(fmt.Sprintf("%s - %s transport failure: %v", logPrefix, m.Name, err))
		return nil, &Error[C]{Method: m.Name, Kind: KindTransport, Err: err}
	}

	resp, err := Decode[Resp](m.Name, body, table)
	if err != nil {
		slog.Debug(fmt.Sprintf("%s - %s failed: %v", logPrefix, m.Name, err))
		return nil, err
	}
	return resp, nil
}
