package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/vidhi/internal/shared"
)

// DefaultLoginMessage is shown when a login fails without a server explanation.
const DefaultLoginMessage = "Login failed"

// AuthError reports rejected credentials, or an expired or invalid API key (HTTP 401).
//
// Callers must clear the stored session and return the user to the login view.
type AuthError struct {
	Status  int    // HTTP status, 0 when the request never completed
	Message string // Human-readable message, preferring the server's detail field
	Err     error  // Underlying cause, if any
}

func (e *AuthError) Error() string {
	return e.Message
}

// Unwrap exposes both the shared sentinel and the cause to [errors.Is].
func (e *AuthError) Unwrap() []error {
	sentinel := shared.ErrNotAuthenticated
	if e.Status != http.StatusUnauthorized {
		sentinel = shared.ErrAuthFailed
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// TransportError reports a network failure or any non-2xx response other than 401.
//
// It never invalidates the session.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrAPIRequest}
	}
	return []error{shared.ErrAPIRequest, e.Err}
}

// IsAuthError reports whether err is or wraps an [*AuthError].
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Message extracts the human-readable message of err for display.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Message
	}

	return err.Error()
}

// errorBody mirrors FastAPI error payloads: detail is either a string or a list of validation errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// detailMessage returns the server-provided explanation in body, or "" when there is none.
func detailMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// statusError converts a non-2xx response into the matching typed error.
func statusError(resp *APIResponse) error {
	msg := detailMessage(resp.Body)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Status: resp.StatusCode, Message: msg}
	}
	return &TransportError{Status: resp.StatusCode, Message: msg}
}

// transportFailure wraps an error raised before any response was received.
func transportFailure(err error) error {
	return &TransportError{Message: err.Error(), Err: err}
}
