package api

import (
	"encoding/json"
	"strings"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

// Policy makes explicit the request/response conventions that earlier
// revisions of the backend contract handled implicitly: path rewriting,
// tenant field names, the tenant-exempt allow-list, and the envelope
// fields that signal a business failure.
type Policy struct {
	// StripAPIPrefix removes a leading /api segment, matching the
	// backend revision that served everything unprefixed.
	StripAPIPrefix bool

	// TenantHeader is the header carrying the active company id.
	TenantHeader string

	// TenantQueryParam is the query parameter (GET/HEAD) and the JSON
	// body field (other methods) carrying the active company id.
	TenantQueryParam string

	// ExemptPrefixes are path prefixes allowed without an active
	// company: auth, company listing, and the user's own profile.
	ExemptPrefixes []string

	Failure FailurePolicy
}

// FailurePolicy enumerates the exact envelope fields checked to detect
// an application-level failure inside a 2xx response, in precedence
// order: success==false, ok==false, non-empty error string,
// status=="error". MessageFields is the precedence for extracting the
// display message, first match wins.
type FailurePolicy struct {
	CheckSuccessFlag  bool
	CheckOKFlag       bool
	CheckErrorString  bool
	CheckStatusString bool
	MessageFields     []string
}

// DefaultPolicy is the contract of the current backend revision.
func DefaultPolicy() Policy {
	return Policy{
		TenantHeader:     "X-Company-Id",
		TenantQueryParam: "companyId",
		ExemptPrefixes:   []string{"/auth", "/companies", "/api/user", "/user"},
		Failure: FailurePolicy{
			CheckSuccessFlag:  true,
			CheckOKFlag:       true,
			CheckErrorString:  true,
			CheckStatusString: true,
			MessageFields:     []string{"message", "error", "details"},
		},
	}
}

// normalizePath guarantees exactly one leading slash and applies the
// historical /api strip.
func (p Policy) normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if p.StripAPIPrefix && strings.HasPrefix(path, "/api/") {
		path = strings.TrimPrefix(path, "/api")
	}
	return path
}

// exempt reports whether a path may be called without an active company.
func (p Policy) exempt(path string) bool {
	for _, prefix := range p.ExemptPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// check inspects a parsed JSON object for the failure envelope. Only
// object payloads are sniffed; arrays, strings, and empty bodies never
// signal failure.
func (fp FailurePolicy) check(payload Payload, status int) *domain.RequestError {
	if payload.Kind != PayloadJSON {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload.Raw, &obj); err != nil {
		return nil // not an object
	}

	failed := false
	switch {
	case fp.CheckSuccessFlag && boolField(obj, "success") == falseValue:
		failed = true
	case fp.CheckOKFlag && boolField(obj, "ok") == falseValue:
		failed = true
	case fp.CheckErrorString && stringField(obj, "error") != "":
		failed = true
	case fp.CheckStatusString && stringField(obj, "status") == "error":
		failed = true
	}
	if !failed {
		return nil
	}

	msg := fp.message(obj)
	if msg == "" {
		msg = domain.GenericRequestFailed(status)
	}
	return domain.NewRequestError(msg, status, nil)
}

// message extracts the display message using the configured field
// precedence. First non-empty string wins.
func (fp FailurePolicy) message(obj map[string]json.RawMessage) string {
	for _, field := range fp.MessageFields {
		if s := stringField(obj, field); s != "" {
			return s
		}
	}
	return ""
}

type triState int

const (
	absentValue triState = iota
	falseValue
	trueValue
)

func boolField(obj map[string]json.RawMessage, key string) triState {
	raw, ok := obj[key]
	if !ok {
		return absentValue
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return absentValue
	}
	if b {
		return trueValue
	}
	return falseValue
}

func stringField(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
