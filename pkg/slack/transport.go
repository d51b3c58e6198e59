package slack

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const transportLogPrefix = "slack:transport"

// DefaultTimeout bounds a single HTTP round trip when no client is supplied.
const DefaultTimeout = 30 * time.Second

// Transport delivers one encoded request and returns the raw response body.
// Any error it returns is reported to callers as KindTransport.
type Transport interface {
	Send(ctx context.Context, url, token string, params Params) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, url, token string, params Params) ([]byte, error)

func (f TransportFunc) Send(ctx context.Context, url, token string, params Params) ([]byte, error) {
	return f(ctx, url, token, params)
}

// StatusError is returned for a non-2xx HTTP status.
type StatusError struct {
	StatusCode int
	// RetryAfter is the raw Retry-After header, set on 429 responses.
	RetryAfter string
}

func (e *StatusError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("http status %d (retry after %ss)", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("http status %d", e.StatusCode)
}

// HTTPTransport posts form-encoded requests with a bearer token.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client. Pass nil for a client with DefaultTimeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, url, token string, params Params) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create request: %w", transportLogPrefix, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to issue request: %w", transportLogPrefix, err)
	}
	defer CleanlyCloseBody(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, RetryAfter: resp.Header.Get("Retry-After")}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to read response body: %w", transportLogPrefix, err)
	}
	return body, nil
}

// CleanlyCloseBody drains and closes an HTTP response body so the underlying
// connection can be reused.
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		body.Close()
		return err
	}
	return body.Close()
}
