// Package main is the entrypoint for slack-relay, which forwards Slack Web API
// calls received over COMMS to Slack.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/morezero/slackapi/internal/server"
)

const usage = `Usage: slack-relay [command]

Commands:
  serve       (default) Start the relay (NATS subscription, HTTP health).
  help        Show this message.

Environment: SLACK_API_TOKEN (required), SLACK_API_URL, SLACK_HTTP_TIMEOUT, COMMS_URL,
RELAY_SUBJECT, RELAY_QUEUE, RELAY_ACCEPT_VERSIONS, RELAY_REQUEST_TIMEOUT, HTTP_PORT, LOG_LEVEL.
`

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("slack-relay: %v", err)
	}
}
