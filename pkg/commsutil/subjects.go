package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	SubjectRelay          = "slack.api.v1"
	SubjectArchiveChanged = "slack.archive.changed"
)

// BuildArchiveSubject builds the granular archive event subject for a channel.
func BuildArchiveSubject(channel string) string {
	return fmt.Sprintf("slack.archive.%s", subjectToken(channel))
}

// BuildRelaySubject builds the relay subject for a protocol major version.
func BuildRelaySubject(major int) string {
	return fmt.Sprintf("slack.api.v%d", major)
}

// subjectToken makes s safe as a single NATS subject token.
func subjectToken(s string) string {
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}
