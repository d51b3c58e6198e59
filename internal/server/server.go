// Package server runs the Slack egress relay: COMMS subscription, upstream
// HTTP transport and the HTTP health endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/slackapi/internal/config"
	"github.com/morezero/slackapi/pkg/commsutil"
	"github.com/morezero/slackapi/pkg/relay"
	"github.com/morezero/slackapi/pkg/slack"
)

const logPrefix = "server:server"

// connStatus is the part of *comms.Conn the health checks read.
type connStatus interface {
	IsConnected() bool
	ConnectedUrlRedacted() string
}

var _ connStatus = (*comms.Conn)(nil)

// statsSource is the part of *relay.Dispatcher the status page reads.
type statsSource interface {
	Stats() relay.Stats
}

// Server is the slack-relay orchestrator.
type Server struct {
	cfg        *config.Config
	conn       connStatus
	disp       statsSource
	started    time.Time
	httpServer *http.Server
}

// HealthOutput is the /health body.
type HealthOutput struct {
	Status    string       `json:"status"`
	Checks    HealthChecks `json:"checks"`
	Subject   string       `json:"subject"`
	Stats     relay.Stats  `json:"stats"`
	Uptime    string       `json:"uptime"`
	Timestamp string       `json:"timestamp"`
}

// HealthChecks lists the individual dependency checks.
type HealthChecks struct {
	Comms bool `json:"comms"`
}

// Run starts the relay, blocks until shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	cfg.SetupLogging()
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Starting slack-relay", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 1: Connect to NATS
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
	}
	slog.Info(fmt.Sprintf("%s - Connected to NATS at %s", logPrefix, cfg.COMMSURL))

	// Step 2: Upstream transport and dispatcher
	upstream := slack.NewHTTPTransport(&http.Client{Timeout: cfg.SlackHTTPTimeout})
	disp, err := relay.NewDispatcher(relay.NewDispatcherParams{
		Upstream:       upstream,
		BaseURL:        cfg.SlackAPIURL,
		Token:          cfg.SlackToken,
		AcceptVersions: cfg.RelayAcceptVersions,
	})
	if err != nil {
		nc.Close()
		return fmt.Errorf("%s - failed to create dispatcher: %w", logPrefix, err)
	}

	// Step 3: Subscribe
	sub, err := disp.Serve(ctx, nc, cfg.RelaySubject, cfg.RelayQueue, cfg.RelayRequestTimeout)
	if err != nil {
		nc.Close()
		return err
	}

	// Step 4: Start HTTP health server
	s := newServer(cfg, nc, disp)
	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: s.routes(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP health server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - slack-relay is ready on %s", logPrefix, cfg.RelaySubject))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown: stop taking requests, let in-flight ones answer.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.RelayRequestTimeout)
	defer shutdownCancel()
	if err := sub.Drain(); err != nil {
		slog.Warn(fmt.Sprintf("%s - subscription drain: %v", logPrefix, err))
	}
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn(fmt.Sprintf("%s - HTTP shutdown: %v", logPrefix, err))
	}
	if err := nc.Drain(); err != nil {
		slog.Warn(fmt.Sprintf("%s - COMMS drain: %v", logPrefix, err))
	}

	stats := disp.Stats()
	slog.Info(fmt.Sprintf("%s - Shutdown complete (forwarded=%d rejected=%d failed=%d)", logPrefix, stats.Forwarded, stats.Rejected, stats.Failed))
	return nil
}

func newServer(cfg *config.Config, conn connStatus, disp statsSource) *Server {
	return &Server{cfg: cfg, conn: conn, disp: disp, started: time.Now()}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	return mux
}

// Health reports whether the relay can take requests.
func (s *Server) Health() *HealthOutput {
	connected := s.conn != nil && s.conn.IsConnected()
	status := "healthy"
	if !connected {
		status = "unhealthy"
	}
	return &HealthOutput{
		Status:    status,
		Checks:    HealthChecks{Comms: connected},
		Subject:   s.cfg.RelaySubject,
		Stats:     s.disp.Stats(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.Health()
	w.Header().Set("Content-Type", "application/json")
	if h.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(h)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.conn == nil || !s.conn.IsConnected() {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// homePageTemplate is the HTML for the relay status page (white bg, black/blue text).
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Slack Relay</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    h1, h2 { color: #0066cc; }
    .status-healthy { color: #0066cc; font-weight: bold; }
    .status-unhealthy { color: #cc0000; font-weight: bold; }
    table { border-collapse: collapse; max-width: 600px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
  </style>
</head>
<body>
  <h1>Slack Relay</h1>
  <p class="meta">Forwards Slack Web API calls received on {{.Health.Subject}} to {{.BaseURL}}.</p>

  <section>
    <h2>Health</h2>
    <p>Status: <span class="status-{{.Health.Status}}">{{.Health.Status}}</span></p>
    <p>COMMS: {{if .Health.Checks.Comms}}connected to {{.CommsURL}}{{else}}<span class="status-unhealthy">disconnected</span>{{end}}</p>
    <p>Accepted versions: {{.AcceptVersions}}</p>
    <p>Uptime: {{.Health.Uptime}}</p>
  </section>

  <section>
    <h2>Requests</h2>
    <table>
      <tr><th>Forwarded</th><td>{{.Health.Stats.Forwarded}}</td></tr>
      <tr><th>Rejected</th><td>{{.Health.Stats.Rejected}}</td></tr>
      <tr><th>Failed upstream</th><td>{{.Health.Stats.Failed}}</td></tr>
    </table>
  </section>
  <p class="meta">{{.Health.Timestamp}}</p>
</body>
</html>
`

// homeData is the data passed to the home page template.
type homeData struct {
	Health         *HealthOutput
	BaseURL        string
	CommsURL       string
	AcceptVersions string
}

// handleHome returns an HTTP handler for the relay status page.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data := homeData{
			Health:         s.Health(),
			BaseURL:        s.cfg.SlackAPIURL,
			AcceptVersions: s.cfg.RelayAcceptVersions,
		}
		if s.conn != nil {
			data.CommsURL = s.conn.ConnectedUrlRedacted()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
