package relay

import (
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewRequestID generates a ULID for a relay request. IDs from one process
// sort in creation order.
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ValidateRequestID checks that id is a canonical ULID.
func ValidateRequestID(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("relay: request id %q: %w", id, err)
	}
	return nil
}
