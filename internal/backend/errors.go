package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// fallbackMessage is shown when an error carries nothing displayable.
const fallbackMessage = "unexpected error"

// Error is a non-2xx backend response with its decoded detail payload.
type Error struct {
	Status int
	Detail json.RawMessage
	Body   []byte
}

func newError(status int, body []byte) *Error {
	e := &Error{Status: status, Body: body}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Detail = payload.Detail
	}
	return e
}

func (e *Error) Error() string {
	if s := detailString(e.Detail); s != "" {
		return fmt.Sprintf("backend: status %d: %s", e.Status, s)
	}
	return fmt.Sprintf("backend: unexpected status %d", e.Status)
}

// Normalize turns any failure into a single display string. Preference
// order: the upstream detail field (string, list of message objects
// joined with " | ", or a lone object), then the error's own message,
// then a fixed fallback. It never fails on a malformed detail shape.
func Normalize(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) && len(be.Detail) > 0 {
		if s := detailString(be.Detail); s != "" {
			return s
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}

func detailString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var list []any
	if json.Unmarshal(raw, &list) == nil {
		var msgs []string
		for _, item := range list {
			switch v := item.(type) {
			case map[string]any:
				if m := messageField(v); m != "" {
					msgs = append(msgs, m)
				}
			case string:
				if v != "" {
					msgs = append(msgs, v)
				}
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, " | ")
		}
		return string(raw)
	}

	var obj map[string]any
	if json.Unmarshal(raw, &obj) == nil {
		if m := messageField(obj); m != "" {
			return m
		}
		return string(raw)
	}

	return string(raw)
}

func messageField(obj map[string]any) string {
	if m, ok := obj["msg"].(string); ok && m != "" {
		return m
	}
	if m, ok := obj["message"].(string); ok && m != "" {
		return m
	}
	return ""
}
