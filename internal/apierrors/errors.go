// Package apierrors defines the error taxonomy shared by the search and
// destination gateways, and the helpers that turn HTTP responses into it.
package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBodySize bounds how much of a failure body is read for a message.
const maxErrorBodySize = 1 << 20

// ConfigurationError reports a missing credential or destination identifier.
// It is always returned before any network call is made.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// ValidationError reports a destination schema that cannot hold a record.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError is a non-2xx response from an upstream service.
type TransportError struct {
	Service    string
	StatusCode int
	Message    string // upstream message, best effort
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("request failed with status %d", e.StatusCode)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Service != "" {
		msg = fmt.Sprintf("%s %s", e.Service, msg)
	}
	return msg
}

// MalformedResponseError is a response body that could not be decoded.
// errors.As treats it as a *TransportError with a generic message.
type MalformedResponseError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *MalformedResponseError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s returned a malformed response: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) As(target any) bool {
	t, ok := target.(**TransportError)
	if !ok {
		return false
	}
	*t = &TransportError{
		Service:    e.Service,
		StatusCode: e.StatusCode,
		Message:    "malformed response",
	}
	return true
}

// IsConfiguration reports whether err is, or wraps, a ConfigurationError.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsTransport reports whether err is, or wraps, a TransportError or a
// MalformedResponseError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// FromResponse builds a TransportError from a failed response. The body is
// parsed as JSON to pick up an "error.message" or "message" field; anything
// unparseable leaves the message empty.
func FromResponse(service string, resp *http.Response) *TransportError {
	terr := &TransportError{
		Service:    service,
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(body) == 0 {
		return terr
	}
	terr.Message = upstreamMessage(body)
	return terr
}

func upstreamMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return payload.Message
}

// DecodeJSON decodes a successful response body into v, reporting decode
// failures as a MalformedResponseError.
func DecodeJSON(service string, resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &MalformedResponseError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}
