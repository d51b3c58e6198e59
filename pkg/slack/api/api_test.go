package api

import (
	"context"
	"errors"
	"testing"

	"github.com/morezero/slackapi/pkg/slack"
	"github.com/morezero/slackapi/pkg/slack/slacktest"
)

const apiTestPrefix = "api:api_test"

func strPtr(s string) *string { return &s }

func TestTest_EchoesArgs(t *testing.T) {
	srv := slacktest.NewServer(t)
	srv.Handle("api.test", `{"ok":true,"args":{"foo":"bar"}}`)

	resp, err := Test(context.Background(), srv.Client(""), &TestRequest{Foo: strPtr("bar")})
	if err != nil {
		t.Fatalf("%s - Test failed: %v", apiTestPrefix, err)
	}
	if resp.Args["foo"] != "bar" {
		t.Errorf("%s - args = %v", apiTestPrefix, resp.Args)
	}
	req, _ := srv.LastRequest()
	if req.Form.Get("foo") != "bar" {
		t.Errorf("%s - foo = %q", apiTestPrefix, req.Form.Get("foo"))
	}
}

func TestTest_RequestedErrors(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantKind slack.ErrorKind
	}{
		{"common code", slack.CodeInvalidAuth, slack.KindKnown},
		{"code outside the table", "my_error", slack.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := slacktest.NewServer(t)
			srv.Handle("api.test", `{"ok":false,"error":"`+tt.code+`","args":{"error":"`+tt.code+`"}}`)

			_, err := Test(context.Background(), srv.Client(""), &TestRequest{Error: strPtr(tt.code)})
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("%s - expected *Error, got %T: %v", apiTestPrefix, err, err)
			}
			if apiErr.Kind != tt.wantKind || apiErr.Raw != tt.code {
				t.Errorf("%s - got kind %v raw %q", apiTestPrefix, apiErr.Kind, apiErr.Raw)
			}
			if apiErr.Method != "api.test" {
				t.Errorf("%s - method = %q", apiTestPrefix, apiErr.Method)
			}
		})
	}
}
