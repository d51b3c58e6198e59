package slack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// maxTimestampLen bounds the string form: 10 digits of seconds, '.', 6 digits of micros.
	maxTimestampLen = 17
	maxFraction     = 999999
	// fractionBits is the storage width of the fractional part.
	fractionBits = 20
	// maxTimeSeconds is 9999-12-31T23:59:59Z, the last second time.Time can
	// format as RFC 3339.
	maxTimeSeconds = 253402300799
)

// Timestamp is a Slack message timestamp. Slack sends it either as an unsigned
// integer (whole seconds) or as a "seconds.micros" string, and the string form
// doubles as the message identifier and pagination cursor, so it must be
// reproduced byte-for-byte when sent back.
//
// The zero Timestamp is second 0 with no fractional part. Values are produced
// by decoding; see ParseTimestamp and UnmarshalText for the text forms.
type Timestamp struct {
	seconds  uint64
	fraction uint32
	hasFrac  bool
}

// ParseTimestamp parses the "seconds.micros" string form, applying the same
// rules as a JSON string timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	if len(s) > maxTimestampLen {
		return Timestamp{}, fmt.Errorf("slack: timestamp %q is longer than %d characters", s, maxTimestampLen)
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return Timestamp{}, fmt.Errorf("slack: timestamp %q has no '.' separator", s)
	}

	secs, err := strconv.ParseUint(s[:dot], 10, 64)
	if err != nil {
		return Timestamp{}, fmt.Errorf("slack: timestamp %q: invalid seconds: %w", s, err)
	}
	frac, err := strconv.ParseUint(s[dot+1:], 10, fractionBits)
	if err != nil {
		return Timestamp{}, fmt.Errorf("slack: timestamp %q: invalid fraction: %w", s, err)
	}
	if frac > maxFraction {
		return Timestamp{}, fmt.Errorf("slack: timestamp %q: fraction %d exceeds %d", s, frac, maxFraction)
	}

	return Timestamp{seconds: secs, fraction: uint32(frac), hasFrac: true}, nil
}

// Seconds returns the whole-second part.
func (t Timestamp) Seconds() uint64 {
	return t.seconds
}

// Micros returns the fractional part in microseconds and whether one was present.
func (t Timestamp) Micros() (uint32, bool) {
	return t.fraction, t.hasFrac
}

// Time converts the timestamp to a UTC time.Time. Seconds past the year 9999
// are clamped to its last microsecond.
func (t Timestamp) Time() time.Time {
	if t.seconds > maxTimeSeconds {
		return time.Unix(maxTimeSeconds, maxFraction*int64(time.Microsecond)).UTC()
	}
	return time.Unix(int64(t.seconds), int64(t.fraction)*int64(time.Microsecond)).UTC()
}

// Compare orders timestamps chronologically. An absent fraction sorts as zero.
func (t Timestamp) Compare(other Timestamp) int {
	switch {
	case t.seconds < other.seconds:
		return -1
	case t.seconds > other.seconds:
		return 1
	case t.fraction < other.fraction:
		return -1
	case t.fraction > other.fraction:
		return 1
	}
	return 0
}

// String returns the text form: "secs.micros" with six fraction digits, or bare secs.
func (t Timestamp) String() string {
	if t.hasFrac {
		return fmt.Sprintf("%d.%06d", t.seconds, t.fraction)
	}
	return strconv.FormatUint(t.seconds, 10)
}

// MarshalText encodes the timestamp for form parameters and stored cursors.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts both text forms produced by MarshalText.
func (t *Timestamp) UnmarshalText(text []byte) error {
	s := string(text)
	if strings.IndexByte(s, '.') >= 0 {
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	secs, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("slack: timestamp %q: %w", s, err)
	}
	*t = Timestamp{seconds: secs}
	return nil
}

// MarshalJSON writes a JSON string when a fraction is present and a bare
// number otherwise, mirroring the form Slack sent.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.hasFrac {
		return []byte(`"` + t.String() + `"`), nil
	}
	return []byte(t.String()), nil
}

// UnmarshalJSON accepts an unsigned integer or a "seconds.micros" string.
// null, negative numbers, floats and every other JSON type are rejected.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("slack: timestamp: empty input")
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("slack: timestamp: %w", err)
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case c >= '0' && c <= '9':
		secs, err := strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("slack: timestamp %s is not an unsigned integer", data)
		}
		*t = Timestamp{seconds: secs}
		return nil
	case c == '-':
		return fmt.Errorf("slack: timestamp %s is negative", data)
	}
	return fmt.Errorf("slack: timestamp must be a string or unsigned integer, got %s", jsonKind(data[0]))
}

func jsonKind(c byte) string {
	switch c {
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return "number"
	}
	return "invalid JSON"
}
