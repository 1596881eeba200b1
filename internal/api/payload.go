package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// PayloadKind classifies a normalized response body.
type PayloadKind int

const (
	// PayloadEmpty is an empty body (including whitespace-only).
	PayloadEmpty PayloadKind = iota
	// PayloadJSON is a validated JSON value held in Raw.
	PayloadJSON
	// PayloadText is a non-JSON-looking body passed through as a string.
	PayloadText
)

// Payload is the normalized result of a backend call: nothing, a JSON
// value, or plain text.
type Payload struct {
	Kind PayloadKind
	Raw  json.RawMessage
	Text string
}

// Decode unmarshals a JSON payload into out. Empty payloads leave out
// untouched; text payloads are a decode error.
func (p Payload) Decode(out any) error {
	switch p.Kind {
	case PayloadEmpty:
		return nil
	case PayloadJSON:
		return json.Unmarshal(p.Raw, out)
	default:
		return fmt.Errorf("expected JSON response, got plain text")
	}
}

// String returns the text payload, or a JSON string payload unquoted.
func (p Payload) String() string {
	switch p.Kind {
	case PayloadText:
		return p.Text
	case PayloadJSON:
		var s string
		if err := json.Unmarshal(p.Raw, &s); err == nil {
			return s
		}
	}
	return ""
}

// decodePayload reads the raw body as text: empty means no payload,
// JSON-looking text must parse (malformed raises a parse error), and
// anything else passes through as a plain string.
func decodePayload(raw []byte) (Payload, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return Payload{Kind: PayloadEmpty}, nil
	}

	if looksLikeJSON(trimmed) {
		if !json.Valid([]byte(trimmed)) {
			return Payload{}, fmt.Errorf("malformed JSON body")
		}
		return Payload{Kind: PayloadJSON, Raw: json.RawMessage(trimmed)}, nil
	}

	return Payload{Kind: PayloadText, Text: trimmed}, nil
}

// looksLikeJSON matches bodies that start like a JSON value. Bare
// numbers and literals are rare enough on this backend that plain text
// wins for anything else.
func looksLikeJSON(s string) bool {
	switch s[0] {
	case '{', '[', '"':
		return true
	}
	return false
}

// httpError builds the error for a non-2xx response: the payload's
// message/error/details field when present, else a generic fallback
// carrying the status code.
func httpError(status int, body []byte, fp FailurePolicy) *domain.RequestError {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		if msg := fp.message(obj); msg != "" {
			return domain.NewRequestError(msg, status, nil)
		}
	}
	return domain.NewRequestError(domain.GenericRequestFailed(status), status, nil)
}
