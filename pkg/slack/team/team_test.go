package team

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/morezero/slackapi/pkg/slack"
	"github.com/morezero/slackapi/pkg/slack/slacktest"
)

const teamTestPrefix = "team:team_test"

func TestAccessLogs(t *testing.T) {
	srv := slacktest.NewServer(t)
	srv.Handle("team.accessLogs", `{
		"ok": true,
		"logins": [{
			"user_id": "U45678", "username": "alice", "date_first": 1422922864, "date_last": 1422922864,
			"count": 1, "ip": "127.0.0.1", "user_agent": "SlackWeb", "isp": null, "country": "US", "region": "CA"
		}],
		"paging": {"count": 100, "total": 1, "page": 1, "pages": 1}
	}`)

	count := 100
	resp, err := AccessLogs(context.Background(), srv.Client("xoxp"), &AccessLogsRequest{Count: &count})
	if err != nil {
		t.Fatalf("%s - AccessLogs failed: %v", teamTestPrefix, err)
	}
	if len(resp.Logins) != 1 {
		t.Fatalf("%s - got %d logins", teamTestPrefix, len(resp.Logins))
	}
	login := resp.Logins[0]
	if login.ISP != nil {
		t.Errorf("%s - null isp should decode as nil, got %q", teamTestPrefix, *login.ISP)
	}
	if login.IP == nil || *login.IP != "127.0.0.1" {
		t.Errorf("%s - ip = %v", teamTestPrefix, login.IP)
	}
	if resp.Paging == nil || resp.Paging.Pages != 1 {
		t.Errorf("%s - paging = %+v", teamTestPrefix, resp.Paging)
	}

	req, _ := srv.LastRequest()
	if req.Form.Get("count") != "100" {
		t.Errorf("%s - count = %q", teamTestPrefix, req.Form.Get("count"))
	}
}

func TestBillableInfo(t *testing.T) {
	srv := slacktest.NewServer(t)
	srv.Handle("team.billableInfo", `{"ok":true,"billable_info":{"U0632EWRW":{"billing_active":false},"U02UCPE1R":{"billing_active":true}}}`)

	resp, err := BillableInfo(context.Background(), srv.Client("xoxp"), nil)
	if err != nil {
		t.Fatalf("%s - BillableInfo failed: %v", teamTestPrefix, err)
	}
	if !resp.BillableInfo["U02UCPE1R"].BillingActive || resp.BillableInfo["U0632EWRW"].BillingActive {
		t.Errorf("%s - billable_info = %+v", teamTestPrefix, resp.BillableInfo)
	}
}

func TestInfo_EmptyIcon(t *testing.T) {
	srv := slacktest.NewServer(t)
	srv.Handle("team.info", `{"ok":true,"team":{"id":"T1","name":"Acme","domain":"acme","email_domain":"","icon":[]}}`)

	resp, err := Info(context.Background(), srv.Client("xoxp"), nil)
	if err != nil {
		t.Fatalf("%s - Info failed: %v", teamTestPrefix, err)
	}
	icon, ok := resp.Team.Icon.Get()
	if !ok || icon != (slack.TeamIcon{}) {
		t.Errorf("%s - icon = %+v ok=%v", teamTestPrefix, icon, ok)
	}
}

func TestPaidOnly_Description(t *testing.T) {
	srv := slacktest.NewServer(t)
	srv.Handle("team.accessLogs", `{"ok":false,"error":"paid_only"}`)

	_, err := AccessLogs(context.Background(), srv.Client("xoxp"), nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Code != PaidOnly {
		t.Fatalf("%s - expected paid_only, got %v", teamTestPrefix, err)
	}
	if !strings.Contains(err.Error(), "only available to paid teams") {
		t.Errorf("%s - error message %q lacks the description", teamTestPrefix, err.Error())
	}
}
