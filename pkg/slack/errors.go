package slack

import (
	"errors"
	"fmt"
	"sort"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindTransport: the request never produced a response body.
	KindTransport ErrorKind = iota + 1
	// KindMalformed: the body matched neither the success schema nor the error envelope.
	KindMalformed
	// KindKnown: Slack returned a code listed in the method family's table.
	KindKnown
	// KindUnknown: Slack returned a code nobody declared.
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	case KindKnown:
		return "known"
	case KindUnknown:
		return "unknown"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels matched by errors.Is against any *Error.
var (
	ErrTransport         = errors.New("slack: transport failure")
	ErrMalformedResponse = errors.New("slack: malformed response")
	ErrKnown             = errors.New("slack: api error")
	ErrUnknown           = errors.New("slack: unknown api error")
)

// Code is the constraint for a method family's error-code type.
type Code interface {
	~string
}

// Error is the failure returned by Call for a method family with code type C.
type Error[C Code] struct {
	// Method is the Slack method name, e.g. "channels.history".
	Method string
	Kind   ErrorKind
	// Code is set for KindKnown.
	Code C
	// Raw is the code string as received, set for KindKnown and KindUnknown.
	Raw string
	// Err is the transport failure or the parse diagnostic.
	Err error
}

func (e *Error[C]) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("slack: %s: transport: %v", e.Method, e.Err)
	case KindMalformed:
		return fmt.Sprintf("slack: %s: malformed response: %v", e.Method, e.Err)
	case KindKnown:
		if desc := Describe(e.Raw); desc != "" {
			return fmt.Sprintf("slack: %s: %s: %s", e.Method, e.Raw, desc)
		}
		return fmt.Sprintf("slack: %s: %s", e.Method, e.Raw)
	case KindUnknown:
		return fmt.Sprintf("slack: %s: unknown error %q", e.Method, e.Raw)
	}
	return fmt.Sprintf("slack: %s: %v", e.Method, e.Err)
}

func (e *Error[C]) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error[C]) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrMalformedResponse:
		return e.Kind == KindMalformed
	case ErrKnown:
		return e.Kind == KindKnown
	case ErrUnknown:
		return e.Kind == KindUnknown
	}
	return false
}

// ErrorTable is the closed set of codes a method family documents, plus
// CommonCodes.
type ErrorTable[C Code] struct {
	known map[string]C
}

// NewErrorTable builds a table from the family's codes.
func NewErrorTable[C Code](codes ...C) *ErrorTable[C] {
	known := make(map[string]C, len(CommonCodes)+len(codes))
	for _, code := range CommonCodes {
		known[code] = C(code)
	}
	for _, code := range codes {
		known[string(code)] = code
	}
	return &ErrorTable[C]{known: known}
}

// Lookup reports whether raw is a known code.
func (t *ErrorTable[C]) Lookup(raw string) (C, bool) {
	code, ok := t.known[raw]
	return code, ok
}

// Codes returns the known codes, sorted.
func (t *ErrorTable[C]) Codes() []C {
	codes := make([]C, 0, len(t.known))
	for _, code := range t.known {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Classify turns an error-envelope code into a Known or Unknown *Error.
func (t *ErrorTable[C]) Classify(method, raw string) *Error[C] {
	if code, ok := t.Lookup(raw); ok {
		return &Error[C]{Method: method, Kind: KindKnown, Code: code, Raw: raw}
	}
	return &Error[C]{Method: method, Kind: KindUnknown, Raw: raw}
}

// KindOf returns the ErrorKind of err, or 0 if err is not a Slack call error.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrKnown):
		return KindKnown
	case errors.Is(err, ErrUnknown):
		return KindUnknown
	}
	return 0
}

// CodeOf returns the raw Slack error code carried by err, if any.
func CodeOf(err error) (string, bool) {
	var coder interface{ slackCode() string }
	if errors.As(err, &coder) {
		code := coder.slackCode()
		return code, code != ""
	}
	return "", false
}

func (e *Error[C]) slackCode() string {
	return e.Raw
}
