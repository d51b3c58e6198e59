// Package main is the slackapi command: Slack calls from the shell and the
// channel history archiver.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/slackapi/internal/config"
	"github.com/morezero/slackapi/pkg/archive"
	"github.com/morezero/slackapi/pkg/commsutil"
	"github.com/morezero/slackapi/pkg/db"
	"github.com/morezero/slackapi/pkg/db/sqlite"
	"github.com/morezero/slackapi/pkg/events"
	"github.com/morezero/slackapi/pkg/relay"
	"github.com/morezero/slackapi/pkg/slack"
	"github.com/morezero/slackapi/pkg/slack/auth"
	"github.com/morezero/slackapi/pkg/slack/channels"
)

const usage = `Usage: slackapi <command> [args]
       slackapi auth-test                 Show who the token belongs to (auth.test).
       slackapi history <channel> [count] Print the newest messages of a channel (channels.history).
       slackapi archive [job.toml]        Sync channel history into the archive store.
       slackapi archived <channel> [n]    Print the newest n archived messages of a channel.
       slackapi search <channel> <text>   Search archived messages (postgres driver only).
       slackapi migrate up|down|status    Manage the archive database schema.
       slackapi clear                     Truncate the archive tables; schema is preserved.
       slackapi ensure-db [name]          Create the archive database if missing (default: slackapi).

Environment: SLACK_API_TOKEN, SLACK_API_URL, SLACK_TRANSPORT (http|relay), COMMS_URL, RELAY_SUBJECT,
ARCHIVE_DRIVER (postgres|sqlite), ARCHIVE_SQLITE_PATH, ARCHIVE_JOB_FILE, ARCHIVE_EVENT_SUBJECT,
DATABASE_URL, MIGRATION_PATH, LOG_LEVEL.
`

const defaultHistoryCount = 20

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	var err error
	switch cmd {
	case "auth-test":
		err = runAuthTest()
	case "history":
		if len(args) < 2 {
			log.Fatalf("slackapi history: require a channel ID")
		}
		count := defaultHistoryCount
		if len(args) > 2 {
			if count, err = strconv.Atoi(args[2]); err != nil || count <= 0 {
				log.Fatalf("slackapi history: count must be a positive integer, got %q", args[2])
			}
		}
		err = runHistory(args[1], count)
	case "archive":
		jobFile := ""
		if len(args) > 1 {
			jobFile = args[1]
		}
		err = runArchive(jobFile)
	case "archived":
		if len(args) < 2 {
			log.Fatalf("slackapi archived: require a channel ID")
		}
		limit := defaultHistoryCount
		if len(args) > 2 {
			if limit, err = strconv.Atoi(args[2]); err != nil || limit <= 0 {
				log.Fatalf("slackapi archived: limit must be a positive integer, got %q", args[2])
			}
		}
		err = runArchived(args[1], limit)
	case "search":
		if len(args) < 3 {
			log.Fatalf("slackapi search: require a channel ID and search text")
		}
		err = runSearch(args[1], args[2])
	case "migrate":
		if len(args) < 2 {
			log.Fatalf("slackapi migrate: require subcommand (up, down, status)")
		}
		err = runMigrate(args[1])
	case "clear":
		err = runClear()
	case "ensure-db":
		dbName := "slackapi"
		if len(args) > 1 && args[1] != "" {
			dbName = args[1]
		}
		err = runEnsureDB(dbName)
	case "help", "-h", "--help", "":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("slackapi %s: %v", cmd, err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.SetupLogging()
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newClient builds a client on the transport named by SLACK_TRANSPORT. The
// returned connection is non-nil for the relay transport; the caller closes it.
func newClient(cfg *config.Config) (*slack.Client, *comms.Conn, error) {
	if err := cfg.ValidateForClient(); err != nil {
		return nil, nil, err
	}
	if cfg.SlackTransport == config.TransportHTTP {
		client := slack.NewClient(slack.NewClientParams{
			Transport: slack.NewHTTPTransport(&http.Client{Timeout: cfg.SlackHTTPTimeout}),
			Token:     cfg.SlackToken,
			BaseURL:   cfg.SlackAPIURL,
		})
		return client, nil, nil
	}

	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return nil, nil, fmt.Errorf("connect COMMS: %w", err)
	}
	client := slack.NewClient(slack.NewClientParams{
		Transport: relay.NewTransport(relay.NewTransportParams{
			Conn:    nc,
			Subject: cfg.RelaySubject,
			// Outlast the relay's own upstream timeout so its error reaches us.
			Timeout: cfg.RelayRequestTimeout + 10*time.Second,
		}),
		Token:   cfg.SlackToken,
		BaseURL: cfg.SlackAPIURL,
	})
	return client, nc, nil
}

func runAuthTest() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, nc, err := newClient(cfg)
	if err != nil {
		return err
	}
	if nc != nil {
		defer nc.Close()
	}
	ctx, cancel := signalContext()
	defer cancel()
	return printAuthTest(ctx, os.Stdout, client)
}

func printAuthTest(ctx context.Context, w io.Writer, client *slack.Client) error {
	resp, err := auth.Test(ctx, client)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "team:    %s (%s)\n", resp.Team, resp.TeamID)
	fmt.Fprintf(w, "user:    %s (%s)\n", resp.User, resp.UserID)
	fmt.Fprintf(w, "url:     %s\n", resp.URL)
	if resp.BotID != nil {
		fmt.Fprintf(w, "bot:     %s\n", *resp.BotID)
	}
	return nil
}

func runHistory(channel string, count int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, nc, err := newClient(cfg)
	if err != nil {
		return err
	}
	if nc != nil {
		defer nc.Close()
	}
	ctx, cancel := signalContext()
	defer cancel()
	return printHistory(ctx, os.Stdout, client, channel, count)
}

func printHistory(ctx context.Context, w io.Writer, client *slack.Client, channel string, count int) error {
	resp, err := channels.History(ctx, client, &channels.HistoryRequest{
		Channel: slack.ChannelID(channel),
		Count:   &count,
	})
	if err != nil {
		return err
	}
	for _, m := range resp.Messages {
		ts := "-"
		if m.Ts != nil {
			ts = m.Ts.String()
		}
		fmt.Fprintf(w, "%s %s %s\n", ts, displayUser(m.User, m.Username, m.BotID), m.Text)
	}
	if resp.HasMore != nil && *resp.HasMore {
		fmt.Fprintln(w, "(more messages available)")
	}
	return nil
}

func displayUser(user slack.UserID, username string, bot slack.BotID) string {
	switch {
	case user != "":
		return string(user)
	case username != "":
		return username
	case bot != "":
		return string(bot)
	}
	return "-"
}

// archiveStore is an archive.Store that can also list what it holds.
type archiveStore interface {
	archive.Store
	ListMessages(ctx context.Context, channel string, limit int) ([]archive.StoredMessage, error)
}

// openStore opens the store named by ARCHIVE_DRIVER. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (archiveStore, func(), error) {
	if cfg.ArchiveDriver == config.DriverSQLite {
		store, err := sqlite.Open(cfg.ArchiveSQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Init(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}

	if err := cfg.ValidateForDB(); err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return db.NewRepository(pool), pool.Close, nil
}

func runArchive(jobFile string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForArchive(); err != nil {
		return err
	}
	if jobFile == "" {
		jobFile = cfg.ArchiveJobFile
	}
	job, err := archive.LoadJob(jobFile)
	if err != nil {
		return err
	}

	client, nc, err := newClient(cfg)
	if err != nil {
		return err
	}
	if nc == nil && cfg.ArchiveEventSubject != "" {
		if nc, err = commsutil.Connect(cfg.COMMSURL, cfg.COMMSName); err != nil {
			return fmt.Errorf("connect COMMS: %w", err)
		}
	}
	var publisher events.EventPublisher = &events.NoOpPublisher{}
	if nc != nil {
		defer nc.Drain()
		publisher = events.NewCommsPublisher(nc, &events.CommsPublisherOpts{GlobalSubject: cfg.ArchiveEventSubject})
	}

	ctx, cancel := signalContext()
	defer cancel()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	results, syncErr := archive.NewArchiverForJob(client, store, publisher, job).SyncAll(ctx, job.Channels)
	for _, res := range results {
		line := fmt.Sprintf("%s: %d messages, %d pages, cursor %s", res.Channel, res.Messages, res.Pages, res.Cursor)
		if res.Backfill != "" {
			line += fmt.Sprintf(" (backfilled to %s; run again to continue)", res.Backfill)
		}
		fmt.Println(line)
	}
	return syncErr
}

func runArchived(channel string, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	msgs, err := store.ListMessages(ctx, channel, limit)
	if err != nil {
		return err
	}
	printStored(os.Stdout, msgs)
	return nil
}

func printStored(w io.Writer, msgs []archive.StoredMessage) {
	for _, m := range msgs {
		user := m.User
		if user == "" {
			user = "-"
		}
		fmt.Fprintf(w, "%s %s %s %s\n", m.Ts, m.PostedAt.Format(time.RFC3339), user, m.Text)
	}
}

func runSearch(channel, text string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ArchiveDriver != config.DriverPostgres {
		return fmt.Errorf("search requires ARCHIVE_DRIVER=%s", config.DriverPostgres)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	msgs, err := db.NewRepository(pool).SearchMessages(ctx, channel, text, 0)
	if err != nil {
		return err
	}
	printStored(os.Stdout, msgs)
	return nil
}

func runMigrate(sub string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	switch sub {
	case "up":
		migrations, err := db.LoadMigrations(cfg.MigrationPath)
		if err != nil {
			return fmt.Errorf("load migrations: %w", err)
		}
		if err := db.RunMigrations(ctx, pool, migrations); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	case "status":
		return db.MigrationStatus(ctx, pool, os.Stdout, cfg.MigrationPath)
	case "down":
		return db.MigrationDown(os.Stdout)
	}
	return fmt.Errorf("unknown subcommand %q (use up, down, status)", sub)
}

func runClear() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.ClearArchive(ctx, pool); err != nil {
		return fmt.Errorf("clear archive: %w", err)
	}
	return nil
}

func runEnsureDB(dbName string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	// Replace path with target database name; query (e.g. sslmode) is kept on u.RawQuery.
	u.Path = "/" + dbName
	if err := db.EnsureDatabase(context.Background(), u.String()); err != nil {
		return err
	}
	fmt.Printf("Database %q is ready.\n", dbName)
	return nil
}
