package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"
)

// startTestServer starts an in-process NATS server for testing.
func startTestServer(t *testing.T, port int) (*comms.Conn, func()) {
	t.Helper()

	opts := &commsserver.Options{
		Host:   "127.0.0.1",
		Port:   port,
		NoLog:  true,
		NoSigs: true,
	}

	ns, err := commsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("events:comms_publisher_integration_test - failed to create server: %v", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("events:comms_publisher_integration_test - server failed to start")
	}

	nc, err := comms.Connect(ns.ClientURL(), comms.Timeout(5*time.Second))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("events:comms_publisher_integration_test - failed to connect: %v", err)
	}

	cleanup := func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	}

	return nc, cleanup
}

// subscribeEvents decodes every ArchivedEvent on subject into the returned channel.
func subscribeEvents(t *testing.T, nc *comms.Conn, subject string) <-chan *ArchivedEvent {
	t.Helper()
	received := make(chan *ArchivedEvent, 4)
	sub, err := nc.Subscribe(subject, func(msg *comms.Msg) {
		var event ArchivedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			t.Errorf("events:comms_publisher_integration_test - failed to unmarshal: %v", err)
			return
		}
		received <- &event
	})
	if err != nil {
		t.Fatalf("events:comms_publisher_integration_test - failed to subscribe to %s: %v", subject, err)
	}
	t.Cleanup(func() { _ = sub.Unsubscribe() })
	return received
}

func waitEvent(t *testing.T, ch <-chan *ArchivedEvent, what string) *ArchivedEvent {
	t.Helper()
	select {
	case got := <-ch:
		return got
	case <-time.After(5 * time.Second):
		t.Fatalf("events:comms_publisher_integration_test - timeout waiting for %s event", what)
		return nil
	}
}

func TestCommsPublisher_PublishArchived_GranularSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14230)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)
	received := subscribeEvents(t, nc, "slack.archive.C1234567890")

	event := &ArchivedEvent{
		RunID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Channel:   "C1234567890",
		Messages:  12,
		Pages:     2,
		Cursor:    "1512085950.000216",
		Timestamp: "2025-01-01T00:00:00Z",
	}

	if err := publisher.PublishArchived(context.Background(), event); err != nil {
		t.Fatalf("events:comms_publisher_integration_test - PublishArchived failed: %v", err)
	}
	nc.Flush()

	got := waitEvent(t, received, "granular")
	if got.Channel != "C1234567890" {
		t.Errorf("events:comms_publisher_integration_test - Channel = %q, want %q", got.Channel, "C1234567890")
	}
	if got.Messages != 12 {
		t.Errorf("events:comms_publisher_integration_test - Messages = %d, want 12", got.Messages)
	}
}

func TestCommsPublisher_PublishArchived_BothSubjects(t *testing.T) {
	nc, cleanup := startTestServer(t, 14231)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)
	granular := subscribeEvents(t, nc, "slack.archive.C2")
	global := subscribeEvents(t, nc, "slack.archive.changed")

	event := &ArchivedEvent{Channel: "C2", Messages: 1, Pages: 1, Timestamp: "2025-01-01T00:00:00Z"}
	if err := publisher.PublishArchived(context.Background(), event); err != nil {
		t.Fatalf("events:comms_publisher_integration_test - PublishArchived failed: %v", err)
	}
	nc.Flush()

	waitEvent(t, granular, "granular")
	waitEvent(t, global, "global")
}

func TestCommsPublisher_CustomGlobalSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14232)
	defer cleanup()

	customSubject := "custom.archive.events"
	publisher := NewCommsPublisher(nc, &CommsPublisherOpts{GlobalSubject: customSubject})
	received := subscribeEvents(t, nc, customSubject)

	event := &ArchivedEvent{Channel: "C3", Messages: 5, Timestamp: "2025-01-01T00:00:00Z"}
	if err := publisher.PublishArchived(context.Background(), event); err != nil {
		t.Fatalf("events:comms_publisher_integration_test - PublishArchived failed: %v", err)
	}
	nc.Flush()

	if got := waitEvent(t, received, "custom subject"); got.Channel != "C3" {
		t.Errorf("events:comms_publisher_integration_test - Channel = %q, want %q", got.Channel, "C3")
	}
}

func TestCommsPublisher_EventFieldsPreserved(t *testing.T) {
	nc, cleanup := startTestServer(t, 14233)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)
	received := subscribeEvents(t, nc, "slack.archive.changed")

	event := &ArchivedEvent{
		RunID:          "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Channel:        "C4",
		Messages:       250,
		Pages:          3,
		PreviousCursor: "1512085950.000100",
		Cursor:         "1512085950.000100",
		Truncated:      true,
		Backfill:       "1512104434.000490",
		Timestamp:      "2025-06-15T12:30:00Z",
	}

	if err := publisher.PublishArchived(context.Background(), event); err != nil {
		t.Fatalf("events:comms_publisher_integration_test - PublishArchived failed: %v", err)
	}
	nc.Flush()

	got := waitEvent(t, received, "global")
	if *got != *event {
		t.Errorf("events:comms_publisher_integration_test - got %+v, want %+v", got, event)
	}
}

func TestNewCommsPublisher_Defaults(t *testing.T) {
	nc, cleanup := startTestServer(t, 14234)
	defer cleanup()

	for _, opts := range []*CommsPublisherOpts{nil, {GlobalSubject: ""}} {
		publisher := NewCommsPublisher(nc, opts)
		if publisher.globalSubject != "slack.archive.changed" {
			t.Errorf("events:comms_publisher_integration_test - globalSubject = %q, want %q",
				publisher.globalSubject, "slack.archive.changed")
		}
	}
}
