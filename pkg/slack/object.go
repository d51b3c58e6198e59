package slack

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var emptyObject = []byte("{}")

// ObjectOrEmpty holds a JSON object that Slack sometimes sends as an empty
// array instead. An empty array decodes as the zero-content value of T (what
// "{}" decodes to), null or a missing field leaves Valid false, and a
// non-empty array is an error.
type ObjectOrEmpty[T any] struct {
	Value T
	Valid bool
}

// Get returns the value and whether one was present.
func (o ObjectOrEmpty[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

func (o *ObjectOrEmpty[T]) UnmarshalJSON(data []byte) error {
	var zero T
	o.Value, o.Valid = zero, false

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("slack: object: empty input")
	}

	switch data[0] {
	case 'n':
		if bytes.Equal(data, []byte("null")) {
			return nil
		}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return fmt.Errorf("slack: object: %w", err)
		}
		if len(elems) != 0 {
			return fmt.Errorf("slack: expected an object or an empty array, got an array of %d elements", len(elems))
		}
		if err := json.Unmarshal(emptyObject, &o.Value); err != nil {
			return fmt.Errorf("slack: object: %w", err)
		}
		o.Valid = true
		return nil
	case '{':
		if err := json.Unmarshal(data, &o.Value); err != nil {
			return fmt.Errorf("slack: object: %w", err)
		}
		o.Valid = true
		return nil
	}
	return fmt.Errorf("slack: expected an object or an empty array, got %s", jsonKind(data[0]))
}

// MarshalJSON writes the held object, or null when absent.
func (o ObjectOrEmpty[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
