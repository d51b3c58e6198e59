// Package slacktest provides an in-process fake of the Slack Web API for tests.
package slacktest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/morezero/slackapi/pkg/slack"
)

// UnknownMethodBody is served for methods with no registered response.
const UnknownMethodBody = `{"ok":false,"error":"unknown_method"}`

// Request is one call received by the fake.
type Request struct {
	Method string
	Token  string
	Form   url.Values
}

// Server answers POST /api/<method> with canned bodies. Bodies registered for
// a method are served in order, and the last one repeats.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string][]string
	requests  []Request
}

// NewServer starts a fake closed at the end of the test.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{responses: make(map[string][]string)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle queues response bodies for method.
func (s *Server) Handle(method string, bodies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method] = append(s.responses[method], bodies...)
}

// BaseURL is the API root to hand to slack.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api/"
}

// Client returns a client bound to the fake.
func (s *Server) Client(token string) *slack.Client {
	return slack.NewClient(slack.NewClientParams{Token: token, BaseURL: s.BaseURL()})
}

// Requests returns a copy of the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent call, or false if none arrived.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	method := strings.TrimPrefix(r.URL.Path, "/api/")

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: method,
		Token:  strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		Form:   r.PostForm,
	})
	body := UnknownMethodBody
	if queue := s.responses[method]; len(queue) > 0 {
		body = queue[0]
		if len(queue) > 1 {
			s.responses[method] = queue[1:]
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
