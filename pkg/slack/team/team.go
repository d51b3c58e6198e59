// Package team wraps the team.* methods: workspace info, access and
// integration logs, and billing state.
package team

import (
	"context"

	"github.com/morezero/slackapi/pkg/slack"
)

// ErrorCode is a team.* error code.
type ErrorCode string

const (
	PaidOnly            ErrorCode = "paid_only"
	OverPaginationLimit ErrorCode = "over_pagination_limit"
	UserNotFound        ErrorCode = "user_not_found"
	TeamNotFound        ErrorCode = "team_not_found"
	InvalidCursor       ErrorCode = "invalid_cursor"
)

// Error is the error type returned by this package's calls.
type Error = slack.Error[ErrorCode]

var errorTable = slack.NewErrorTable(PaidOnly, OverPaginationLimit, UserNotFound, TeamNotFound, InvalidCursor)

func init() {
	slack.RegisterDescriptions(map[string]string{
		string(PaidOnly):            "This is only available to paid teams.",
		string(OverPaginationLimit): "It is not possible to request more than 1000 items per page or more than 100 pages.",
	})
}

var (
	methodAccessLogs      = slack.Method{Name: "team.accessLogs"}
	methodBillableInfo    = slack.Method{Name: "team.billableInfo"}
	methodInfo            = slack.Method{Name: "team.info"}
	methodIntegrationLogs = slack.Method{Name: "team.integrationLogs"}
)

type AccessLogsRequest struct {
	Count  *int `param:"count"`
	Page   *int `param:"page"`
	Before *int `param:"before"`
}

type AccessLogsResponse struct {
	OK     bool          `json:"ok"`
	Logins []Login       `json:"logins"`
	Paging *slack.Paging `json:"paging,omitempty"`
}

// Login is one user/IP/agent combination seen in the access logs.
type Login struct {
	UserID    slack.UserID `json:"user_id"`
	Username  string       `json:"username"`
	DateFirst int64        `json:"date_first"`
	DateLast  int64        `json:"date_last"`
	Count     int          `json:"count"`
	IP        *string      `json:"ip"`
	UserAgent string       `json:"user_agent"`
	ISP       *string      `json:"isp"`
	Country   *string      `json:"country"`
	Region    *string      `json:"region"`
}

// AccessLogs calls team.accessLogs.
func AccessLogs(ctx context.Context, c *slack.Client, req *AccessLogsRequest) (*AccessLogsResponse, error) {
	return slack.Call[AccessLogsResponse](ctx, c, methodAccessLogs, req, errorTable)
}

type BillableInfoRequest struct {
	User *slack.UserID `param:"user"`
}

type BillableInfoResponse struct {
	OK           bool                            `json:"ok"`
	BillableInfo map[slack.UserID]BillableStatus `json:"billable_info"`
}

type BillableStatus struct {
	BillingActive bool `json:"billing_active"`
}

// BillableInfo calls team.billableInfo.
func BillableInfo(ctx context.Context, c *slack.Client, req *BillableInfoRequest) (*BillableInfoResponse, error) {
	return slack.Call[BillableInfoResponse](ctx, c, methodBillableInfo, req, errorTable)
}

type InfoRequest struct {
	Team *slack.TeamID `param:"team"`
}

type InfoResponse struct {
	OK   bool        `json:"ok"`
	Team *slack.Team `json:"team"`
}

// Info calls team.info.
func Info(ctx context.Context, c *slack.Client, req *InfoRequest) (*InfoResponse, error) {
	return slack.Call[InfoResponse](ctx, c, methodInfo, req, errorTable)
}

type IntegrationLogsRequest struct {
	ServiceID  *string       `param:"service_id"`
	AppID      *slack.AppID  `param:"app_id"`
	User       *slack.UserID `param:"user"`
	ChangeType *string       `param:"change_type"`
	Count      *int          `param:"count"`
	Page       *int          `param:"page"`
}

type IntegrationLogsResponse struct {
	OK     bool             `json:"ok"`
	Logs   []IntegrationLog `json:"logs"`
	Paging *slack.Paging    `json:"paging,omitempty"`
}

// IntegrationLog is one app or service change.
type IntegrationLog struct {
	AppID       *slack.AppID     `json:"app_id,omitempty"`
	AppType     *string          `json:"app_type,omitempty"`
	ServiceID   *string          `json:"service_id,omitempty"`
	ServiceType *string          `json:"service_type,omitempty"`
	UserID      slack.UserID     `json:"user_id"`
	UserName    string           `json:"user_name"`
	Channel     *slack.ChannelID `json:"channel,omitempty"`
	Date        string           `json:"date"`
	ChangeType  string           `json:"change_type"`
	Reason      *string          `json:"reason,omitempty"`
	Scope       *string          `json:"scope,omitempty"`
	RssFeed     *bool            `json:"rss_feed,omitempty"`
}

// IntegrationLogs calls team.integrationLogs.
func IntegrationLogs(ctx context.Context, c *slack.Client, req *IntegrationLogsRequest) (*IntegrationLogsResponse, error) {
	return slack.Call[IntegrationLogsResponse](ctx, c, methodIntegrationLogs, req, errorTable)
}
