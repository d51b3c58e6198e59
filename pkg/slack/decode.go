package slack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeStrict decodes exactly one JSON value from data into v, rejecting
// unknown object keys at every level that uses the default decoder and any
// trailing data after the value.
func DecodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

type errorEnvelope struct {
	Error *string `json:"error"`
}

// decodeErrorEnvelope extracts the "error" code from a JSON object, ignoring
// every other key.
func decodeErrorEnvelope(data []byte) (string, error) {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	if env.Error == nil {
		return "", errors.New(`no string "error" field`)
	}
	return *env.Error, nil
}

// Decode interprets a response body for method. The body is first decoded
// strictly as Resp. If that fails, it is read as an error envelope and the
// code is classified against table. If neither reading works the result is a
// KindMalformed error wrapping the strict-stage diagnostic.
func Decode[Resp any, C Code](method string, body []byte, table *ErrorTable[C]) (*Resp, error) {
	resp := new(Resp)
	strictErr := DecodeStrict(body, resp)
	if strictErr == nil {
		return resp, nil
	}

	code, envErr := decodeErrorEnvelope(body)
	if envErr == nil {
		return nil, table.Classify(method, code)
	}

	return nil, &Error[C]{
		Method: method,
		Kind:   KindMalformed,
		Err:    fmt.Errorf("%w (error envelope: %v)", strictErr, envErr),
	}
}
