package archive

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/morezero/slackapi/pkg/slack"
)

func TestNewStoredMessage_KeepsRaw(t *testing.T) {
	raw := `{"type":"message","user":"U1","text":"hi","ts":"1512085950.000216","thread_ts":"1512085950.000100","blocks":[{"type":"section"}]}`
	var m slack.Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("archive:store_test - unmarshal: %v", err)
	}

	stored, err := NewStoredMessage("C1", &m)
	if err != nil {
		t.Fatalf("archive:store_test - NewStoredMessage failed: %v", err)
	}
	if string(stored.Raw) != raw {
		t.Errorf("archive:store_test - raw = %s", stored.Raw)
	}
	if stored.Ts != "1512085950.000216" || stored.ThreadTs != "1512085950.000100" {
		t.Errorf("archive:store_test - ts = %q thread = %q", stored.Ts, stored.ThreadTs)
	}
	want := time.Date(2017, 11, 30, 23, 52, 30, 216000, time.UTC)
	if !stored.PostedAt.Equal(want) {
		t.Errorf("archive:store_test - posted at %v, want %v", stored.PostedAt, want)
	}
}

func TestNewStoredMessage_NoTs(t *testing.T) {
	if _, err := NewStoredMessage("C1", &slack.Message{Text: "x"}); err == nil {
		t.Error("archive:store_test - expected error for message without ts")
	}
}

func TestNewStoredMessage_MarshalsWhenNoRaw(t *testing.T) {
	ts, err := slack.ParseTimestamp("1512085950.000001")
	if err != nil {
		t.Fatalf("archive:store_test - ParseTimestamp: %v", err)
	}
	stored, err := NewStoredMessage("C1", &slack.Message{Type: "message", Text: "x", Ts: &ts})
	if err != nil {
		t.Fatalf("archive:store_test - NewStoredMessage failed: %v", err)
	}
	if len(stored.Raw) == 0 || !json.Valid(stored.Raw) {
		t.Errorf("archive:store_test - raw = %s", stored.Raw)
	}
}
