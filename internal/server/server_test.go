package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"

	"github.com/morezero/slackapi/internal/config"
	"github.com/morezero/slackapi/pkg/commsutil"
	"github.com/morezero/slackapi/pkg/relay"
	"github.com/morezero/slackapi/pkg/slack"
	"github.com/morezero/slackapi/pkg/slack/auth"
	"github.com/morezero/slackapi/pkg/slack/slacktest"
)

const serverTestPrefix = "server:server_test"

type mockConn struct {
	connected bool
}

func (m *mockConn) IsConnected() bool            { return m.connected }
func (m *mockConn) ConnectedUrlRedacted() string { return "nats://127.0.0.1:4222" }

type mockStats struct {
	stats relay.Stats
}

func (m *mockStats) Stats() relay.Stats { return m.stats }

// testServer returns a Server with mock dependencies and test config for HTTP handler tests.
func testServer(t *testing.T, connected bool) *Server {
	t.Helper()
	cfg := &config.Config{
		SlackAPIURL:         "https://slack.com/api/",
		RelaySubject:        "slack.api.v1",
		RelayAcceptVersions: "^1.0.0",
		HealthCheckTimeout:  5 * time.Second,
	}
	return newServer(cfg, &mockConn{connected: connected}, &mockStats{stats: relay.Stats{Forwarded: 42, Rejected: 3, Failed: 1}})
}

func TestHandleHome_Success(t *testing.T) {
	s := testServer(t, true)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("%s - handleHome got status %d, want 200", serverTestPrefix, rec.Code)
	}
	if rec.Header().Get("Content-Type") != "text/html; charset=utf-8" {
		t.Errorf("%s - Content-Type = %q, want text/html", serverTestPrefix, rec.Header().Get("Content-Type"))
	}
	body := rec.Body.String()
	for _, want := range []string{"healthy", "slack.api.v1", "https://slack.com/api/", "^1.0.0", "42"} {
		if !strings.Contains(body, want) {
			t.Errorf("%s - body should contain %q", serverTestPrefix, want)
		}
	}
}

func TestHandleHome_Disconnected(t *testing.T) {
	s := testServer(t, false)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("%s - handleHome got status %d, want 200", serverTestPrefix, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "disconnected") {
		t.Errorf("%s - body should show disconnected COMMS", serverTestPrefix)
	}
}

func TestHandleHome_OnlyRoot(t *testing.T) {
	s := testServer(t, true)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("%s - handleHome(/other) got status %d, want 404", serverTestPrefix, rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		connected  bool
		wantCode   int
		wantStatus string
	}{
		{"healthy", true, http.StatusOK, "healthy"},
		{"unhealthy", false, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t, tt.connected)
			rec := httptest.NewRecorder()
			s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("%s - health got status %d, want %d", serverTestPrefix, rec.Code, tt.wantCode)
			}
			var out HealthOutput
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatalf("%s - decode health: %v", serverTestPrefix, err)
			}
			if out.Status != tt.wantStatus || out.Checks.Comms != tt.connected {
				t.Errorf("%s - health = %+v", serverTestPrefix, out)
			}
			if out.Stats.Forwarded != 42 || out.Subject != "slack.api.v1" {
				t.Errorf("%s - stats/subject = %+v %q", serverTestPrefix, out.Stats, out.Subject)
			}
		})
	}
}

func TestReadyHandler(t *testing.T) {
	tests := []struct {
		name       string
		connected  bool
		wantCode   int
		wantStatus string
	}{
		{"ready", true, http.StatusOK, "ready"},
		{"not ready", false, http.StatusServiceUnavailable, "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t, tt.connected)
			rec := httptest.NewRecorder()
			s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			if rec.Code != tt.wantCode {
				t.Errorf("%s - ready got status %d, want %d", serverTestPrefix, rec.Code, tt.wantCode)
			}
			var out map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatalf("%s - decode ready: %v", serverTestPrefix, err)
			}
			if out["status"] != tt.wantStatus {
				t.Errorf("%s - status = %q, want %q", serverTestPrefix, out["status"], tt.wantStatus)
			}
		})
	}
}

// TestRelayWiring runs the same wiring as Run against an embedded NATS server
// and a fake Slack.
func TestRelayWiring(t *testing.T) {
	ns, err := commsserver.NewServer(&commsserver.Options{Host: "127.0.0.1", Port: 14250, NoLog: true, NoSigs: true})
	if err != nil {
		t.Fatalf("%s - failed to create NATS server: %v", serverTestPrefix, err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatalf("%s - NATS server failed to start", serverTestPrefix)
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	fake := slacktest.NewServer(t)
	fake.Handle("auth.test", `{"ok":true,"url":"https://acme.slack.com/","team":"Acme","user":"bot","team_id":"T1","user_id":"U1"}`)

	cfg := &config.Config{
		SlackToken:          "xoxb-relay",
		SlackAPIURL:         fake.BaseURL(),
		RelaySubject:        "slack.api.v1",
		RelayQueue:          "slack-relay",
		RelayAcceptVersions: "^1.0.0",
		RelayRequestTimeout: 5 * time.Second,
	}

	nc, err := commsutil.Connect(ns.ClientURL(), "slack-relay-test")
	if err != nil {
		t.Fatalf("%s - connect: %v", serverTestPrefix, err)
	}
	t.Cleanup(nc.Close)

	disp, err := relay.NewDispatcher(relay.NewDispatcherParams{
		Upstream:       slack.NewHTTPTransport(nil),
		BaseURL:        cfg.SlackAPIURL,
		Token:          cfg.SlackToken,
		AcceptVersions: cfg.RelayAcceptVersions,
	})
	if err != nil {
		t.Fatalf("%s - NewDispatcher: %v", serverTestPrefix, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	sub, err := disp.Serve(ctx, nc, cfg.RelaySubject, cfg.RelayQueue, cfg.RelayRequestTimeout)
	if err != nil {
		t.Fatalf("%s - Serve: %v", serverTestPrefix, err)
	}
	t.Cleanup(func() { sub.Unsubscribe() })

	client := slack.NewClient(slack.NewClientParams{
		Transport: relay.NewTransport(relay.NewTransportParams{Conn: nc, Subject: cfg.RelaySubject}),
		BaseURL:   cfg.SlackAPIURL,
	})
	resp, err := auth.Test(ctx, client)
	if err != nil {
		t.Fatalf("%s - auth.test through relay: %v", serverTestPrefix, err)
	}
	if resp.TeamID != "T1" {
		t.Errorf("%s - team_id = %q", serverTestPrefix, resp.TeamID)
	}
	if req, _ := fake.LastRequest(); req.Token != "xoxb-relay" {
		t.Errorf("%s - upstream token = %q, want relay token", serverTestPrefix, req.Token)
	}

	s := newServer(cfg, nc, disp)
	h := s.Health()
	if h.Status != "healthy" || h.Stats.Forwarded != 1 {
		t.Errorf("%s - health = %+v", serverTestPrefix, h)
	}
}
