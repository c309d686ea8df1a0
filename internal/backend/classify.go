package backend

import "strings"

// IsReconnectableError heuristically classifies transport/stream errors that
// are likely to be resolved by reconnecting the backend's client and
// retrying, as opposed to ordinary protocol-level failures (bad params, a
// tool's own business-logic error) that a fresh connection would not fix.
// Ported from the teacher's registry.isReconnectableError
// (internal/tool/registry/registry.go).
func IsReconnectableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "stream error"),
		strings.Contains(msg, "internal_error; received from peer"),
		strings.Contains(msg, "rst_stream"),
		strings.Contains(msg, "goaway"),
		strings.Contains(msg, "http2"),
		strings.Contains(msg, "trip not found"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "eof"),
		strings.Contains(msg, "failed to parse response: trip not found"),
		strings.Contains(msg, "server closed idle connection"),
		strings.Contains(msg, "no cached connection"):
		return true
	}
	return false
}
