package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrTimeout is returned when every attempt timed out.
var ErrTimeout = errors.New("classification timed out")

// ErrMalformedResponse is returned when a 2xx body does not match the result schema.
var ErrMalformedResponse = errors.New("malformed classification response")

// ServerError is returned when the inference service responds with a non-2xx
// HTTP status. It is never retried.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("inference service status %d: %s", e.StatusCode, e.Message)
}

// NetworkError wraps a transport failure that is neither a timeout nor an
// HTTP error, e.g. connection refused or DNS failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is (or wraps) ErrTimeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsServer reports whether err is a *ServerError, and returns its status.
func IsServer(err error) (int, bool) {
	var e *ServerError
	if errors.As(err, &e) {
		return e.StatusCode, true
	}
	return 0, false
}

// IsNetwork reports whether err is (or wraps) a *NetworkError.
func IsNetwork(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsMalformed reports whether err is (or wraps) ErrMalformedResponse.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformedResponse) }

// newServerError builds a ServerError from a response body that may carry
// {"error": "..."} or, on the health route, {"message": "..."}.
func newServerError(status int, body []byte) *ServerError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		msg = strings.TrimSpace(payload.Error)
		if msg == "" {
			msg = strings.TrimSpace(payload.Message)
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("Server error (%d). Please try again.", status)
	}
	return &ServerError{StatusCode: status, Message: msg}
}

// UserMessage maps a classification error to the text shown in the
// notification. Timeouts get a friendlier wording than other failures.
func UserMessage(err error) string {
	var se *ServerError
	switch {
	case err == nil:
		return ""
	case IsTimeout(err):
		return "The server is taking too long to respond. It may still be starting up, please try again in a minute."
	case errors.As(err, &se):
		return se.Message
	case IsMalformed(err):
		return "The server returned an unexpected response. Please try again."
	case IsNetwork(err):
		return "Could not reach the classification server. Check your connection and try again."
	default:
		return "Classification failed: " + err.Error()
	}
}
