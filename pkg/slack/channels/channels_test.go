package channels

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/morezero/slackapi/pkg/slack"
)

const channelsTestPrefix = "channels:channels_test"

type stubSlack struct {
	forms chan url.Values
	paths chan string
}

// newStubSlack serves the given body for every request and records the
// posted form of each.
func newStubSlack(t *testing.T, body string) (*slack.Client, *stubSlack) {
	t.Helper()
	stub := &stubSlack{forms: make(chan url.Values, 8), paths: make(chan string, 8)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("%s - bad form: %v", channelsTestPrefix, err)
		}
		stub.forms <- r.PostForm
		stub.paths <- r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return slack.NewClient(slack.NewClientParams{Token: "xoxp-test", BaseURL: srv.URL}), stub
}

func mustParse(t *testing.T, s string) *slack.Timestamp {
	t.Helper()
	ts, err := slack.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("%s - ParseTimestamp(%q): %v", channelsTestPrefix, s, err)
	}
	return &ts
}

func TestHistory(t *testing.T) {
	body := `{
		"ok": true,
		"latest": "1512085950.000216",
		"messages": [
			{"type": "message", "user": "U012AB3CDE", "text": "I find you punny", "ts": "1512085950.000216", "blocks": []},
			{"type": "message", "subtype": "bot_message", "bot_id": "B1", "text": "beep", "ts": "1512104434.000490"}
		],
		"has_more": true,
		"pin_count": 0
	}`
	client, stub := newStubSlack(t, body)

	count := 2
	resp, err := History(context.Background(), client, &HistoryRequest{
		Channel: "C1234567890",
		Oldest:  mustParse(t, "1512085950.000100"),
		Count:   &count,
	})
	if err != nil {
		t.Fatalf("%s - History failed: %v", channelsTestPrefix, err)
	}

	form := <-stub.forms
	if form.Get("channel") != "C1234567890" {
		t.Errorf("%s - channel = %q", channelsTestPrefix, form.Get("channel"))
	}
	if form.Get("oldest") != "1512085950.000100" {
		t.Errorf("%s - oldest = %q", channelsTestPrefix, form.Get("oldest"))
	}
	if form.Get("count") != "2" {
		t.Errorf("%s - count = %q", channelsTestPrefix, form.Get("count"))
	}
	for _, absent := range []string{"latest", "inclusive", "unreads"} {
		if _, ok := form[absent]; ok {
			t.Errorf("%s - %s should not be sent", channelsTestPrefix, absent)
		}
	}
	if path := <-stub.paths; path != "/channels.history" {
		t.Errorf("%s - path = %q", channelsTestPrefix, path)
	}

	if len(resp.Messages) != 2 {
		t.Fatalf("%s - got %d messages, want 2", channelsTestPrefix, len(resp.Messages))
	}
	if resp.HasMore == nil || !*resp.HasMore {
		t.Errorf("%s - HasMore = %v, want true", channelsTestPrefix, resp.HasMore)
	}
	if got := resp.Messages[1].Ts.String(); got != "1512104434.000490" {
		t.Errorf("%s - second ts = %q", channelsTestPrefix, got)
	}
	if resp.Messages[1].Subtype != "bot_message" {
		t.Errorf("%s - Subtype = %q", channelsTestPrefix, resp.Messages[1].Subtype)
	}
}

func TestHistory_CursorRoundTrip(t *testing.T) {
	client, stub := newStubSlack(t, `{"ok":true,"messages":[{"type":"message","text":"x","ts":"1512085950.000216"}],"has_more":false}`)

	first, err := History(context.Background(), client, &HistoryRequest{Channel: "C1"})
	if err != nil {
		t.Fatalf("%s - History failed: %v", channelsTestPrefix, err)
	}
	<-stub.forms
	<-stub.paths

	if _, err := History(context.Background(), client, &HistoryRequest{Channel: "C1", Latest: first.Messages[0].Ts}); err != nil {
		t.Fatalf("%s - second History failed: %v", channelsTestPrefix, err)
	}
	form := <-stub.forms
	if form.Get("latest") != "1512085950.000216" {
		t.Errorf("%s - latest cursor = %q, want the received ts verbatim", channelsTestPrefix, form.Get("latest"))
	}
}

func TestHistory_UnknownTopLevelFieldIsMalformed(t *testing.T) {
	client, _ := newStubSlack(t, `{"ok":true,"messages":[],"brand_new_field":1}`)

	_, err := History(context.Background(), client, &HistoryRequest{Channel: "C1"})
	if !errors.Is(err, slack.ErrMalformedResponse) {
		t.Fatalf("%s - expected malformed response, got %v", channelsTestPrefix, err)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind slack.ErrorKind
		wantCode ErrorCode
	}{
		{"family code", `{"ok":false,"error":"is_archived"}`, slack.KindKnown, IsArchived},
		{"common code", `{"ok":false,"error":"not_authed"}`, slack.KindKnown, slack.CodeNotAuthed},
		{"unknown code", `{"ok":false,"error":"something_new"}`, slack.KindUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newStubSlack(t, tt.body)
			_, err := Archive(context.Background(), client, &ArchiveRequest{Channel: "C1"})

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("%s - expected *channels.Error, got %v", channelsTestPrefix, err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("%s - Kind = %v, want %v", channelsTestPrefix, apiErr.Kind, tt.wantKind)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("%s - Code = %q, want %q", channelsTestPrefix, apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	body := `{"ok":true,"channel":{"id":"C0DEL09A5","name":"endeavor","is_channel":true,"created":1502833204,"creator":"U061F7AUR","is_archived":false,"is_general":false,"is_member":true,"members":["U061F7AUR"],"topic":{"value":"","creator":"","last_set":0},"purpose":{"value":"","creator":"","last_set":0},"previous_names":[],"priority":0}}`
	client, stub := newStubSlack(t, body)

	validate := true
	resp, err := Create(context.Background(), client, &CreateRequest{Name: "endeavor", Validate: &validate})
	if err != nil {
		t.Fatalf("%s - Create failed: %v", channelsTestPrefix, err)
	}
	form := <-stub.forms
	if form.Get("name") != "endeavor" || form.Get("validate") != "true" {
		t.Errorf("%s - form = %v", channelsTestPrefix, form)
	}
	if resp.Channel == nil || resp.Channel.ID != "C0DEL09A5" || !resp.Channel.IsMember {
		t.Errorf("%s - Channel = %+v", channelsTestPrefix, resp.Channel)
	}
}

func TestMarkSendsTimestamp(t *testing.T) {
	client, stub := newStubSlack(t, `{"ok":true}`)

	if _, err := Mark(context.Background(), client, &MarkRequest{Channel: "C1", Ts: *mustParse(t, "1401383885.000061")}); err != nil {
		t.Fatalf("%s - Mark failed: %v", channelsTestPrefix, err)
	}
	form := <-stub.forms
	if form.Get("ts") != "1401383885.000061" {
		t.Errorf("%s - ts = %q", channelsTestPrefix, form.Get("ts"))
	}
}
