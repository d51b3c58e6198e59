package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/morezero/slackapi/pkg/slack"
	"github.com/morezero/slackapi/pkg/slack/slacktest"
)

const authTestPrefix = "auth:auth_test"

func TestTest(t *testing.T) {
	srv := slacktest.NewServer(t)
	srv.Handle("auth.test", `{"ok":true,"url":"https://acme.slack.com/","team":"Acme","user":"alice","team_id":"T1","user_id":"U1"}`)

	resp, err := Test(context.Background(), srv.Client("xoxp-secret"))
	if err != nil {
		t.Fatalf("%s - Test failed: %v", authTestPrefix, err)
	}
	if resp.UserID != "U1" || resp.TeamID != "T1" || resp.BotID != nil {
		t.Errorf("%s - unexpected response %+v", authTestPrefix, resp)
	}

	req, _ := srv.LastRequest()
	if req.Token != "xoxp-secret" {
		t.Errorf("%s - token = %q", authTestPrefix, req.Token)
	}
	if len(req.Form) != 0 {
		t.Errorf("%s - expected no params, got %v", authTestPrefix, req.Form)
	}
}

func TestTest_InvalidAuth(t *testing.T) {
	srv := slacktest.NewServer(t)
	srv.Handle("auth.test", `{"ok":false,"error":"invalid_auth"}`)

	_, err := Test(context.Background(), srv.Client("bad"))
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("%s - expected *Error, got %v", authTestPrefix, err)
	}
	if apiErr.Code != slack.CodeInvalidAuth {
		t.Errorf("%s - code = %q", authTestPrefix, apiErr.Code)
	}
}

func TestRevoke_TestOnly(t *testing.T) {
	srv := slacktest.NewServer(t)
	srv.Handle("auth.revoke", `{"ok":true,"revoked":false}`)

	dryRun := true
	resp, err := Revoke(context.Background(), srv.Client("xoxp"), &RevokeRequest{Test: &dryRun})
	if err != nil {
		t.Fatalf("%s - Revoke failed: %v", authTestPrefix, err)
	}
	if resp.Revoked {
		t.Errorf("%s - revoked should be false in test mode", authTestPrefix)
	}
	req, _ := srv.LastRequest()
	if req.Form.Get("test") != "true" {
		t.Errorf("%s - test = %q", authTestPrefix, req.Form.Get("test"))
	}
}
