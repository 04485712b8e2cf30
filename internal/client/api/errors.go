package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pitchview/client/internal/client/models"
)

// Kind classifies a failed API call.
type Kind string

const (
	// KindNetwork means the server produced no response at all.
	KindNetwork Kind = "network"
	// KindTimeout means the call was cut off by its deadline.
	KindTimeout Kind = "timeout"
	KindUnauthorized Kind = "unauthorized"
	// KindVerificationRequired is a 403 carrying the requires_verification
	// flag. Login recovers it into a redirect instead of an error.
	KindVerificationRequired Kind = "verification_required"
	KindNotFound   Kind = "not_found"
	KindBadRequest Kind = "bad_request"
	KindGeneric    Kind = "generic"
)

// Error is a classified API failure. Besides the kind and detail message it
// keeps the flags and payload data the backend embeds in error bodies, so
// flows can recover identity or tokens from a failed call.
type Error struct {
	Kind       Kind
	StatusCode int

	// Detail is the server-provided message, if any.
	Detail string

	// Fields maps field names to validation messages (e.g. "email",
	// "old_password"). Preserved so callers can pick the most specific
	// message to display.
	Fields map[string]string

	RequiresVerification bool
	AlreadyVerified      bool
	Expired              bool

	User   *models.Identity
	Tokens models.TokenPair
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (%s)", e.Detail, e.Kind)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for k, v := range e.Fields {
			parts = append(parts, k+": "+v)
		}
		return fmt.Sprintf("api: %s (%s)", strings.Join(parts, ", "), e.Kind)
	}
	return fmt.Sprintf("api: request failed (%s)", e.Kind)
}

// FirstOf returns the first non-empty message among the named fields, then
// Detail, then "". Change-password uses it with old_password, new_password.
func (e *Error) FirstOf(fields ...string) string {
	for _, f := range fields {
		if msg, ok := e.Fields[f]; ok && msg != "" {
			return msg
		}
	}
	return e.Detail
}

// Message returns Detail, or fallback when the server provided none.
func (e *Error) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// AsError unpacks err into *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Kind == kind
	}
	return false
}

// classify builds an *Error from a non-2xx response body. The body is a JSON
// object in the common case; anything else degrades to a generic error with
// no detail.
func classify(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Kind: KindGeneric}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		e.parsePayload(raw)
	} else {
		// Some failures come back as a bare JSON string.
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			e.Detail = s
		}
	}

	switch status {
	case 401:
		e.Kind = KindUnauthorized
	case 403:
		if e.RequiresVerification {
			e.Kind = KindVerificationRequired
		}
	case 404:
		e.Kind = KindNotFound
	case 400:
		e.Kind = KindBadRequest
	}
	return e
}

func (e *Error) parsePayload(raw map[string]json.RawMessage) {
	for key, val := range raw {
		switch key {
		case "detail", "message":
			var s string
			if json.Unmarshal(val, &s) == nil && e.Detail == "" {
				e.Detail = s
			}
		case "requires_verification":
			_ = json.Unmarshal(val, &e.RequiresVerification)
		case "already_verified":
			_ = json.Unmarshal(val, &e.AlreadyVerified)
		case "expired":
			_ = json.Unmarshal(val, &e.Expired)
		case "token_valid", "token_format_valid":
			// informational flags on check-token failures, not messages
		case "user":
			var u models.Identity
			if json.Unmarshal(val, &u) == nil {
				e.User = &u
			}
		case "access":
			_ = json.Unmarshal(val, &e.Tokens.Access)
		case "refresh":
			_ = json.Unmarshal(val, &e.Tokens.Refresh)
		default:
			// Remaining keys are validation fields: either a message or a
			// list of messages.
			msg := fieldMessage(val)
			if msg == "" {
				continue
			}
			if e.Fields == nil {
				e.Fields = make(map[string]string)
			}
			e.Fields[key] = msg
		}
	}
}

func fieldMessage(val json.RawMessage) string {
	var s string
	if json.Unmarshal(val, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(val, &list) == nil {
		return strings.Join(list, " ")
	}
	return ""
}
