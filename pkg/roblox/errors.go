package roblox

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// Kind classifies an APIError.
type Kind string

const (
	KindTransport        Kind = "transport"
	KindHTTPStatus       Kind = "http-status"
	KindParse            Kind = "parse"
	KindNotFound         Kind = "not-found"
	KindPermissionDenied Kind = "permission-denied"
)

// Op names the Open Cloud capability a request needs. For DataStore calls it
// matches the operation label shown on the API key settings page.
type Op string

const (
	OpRead     Op = "Read"
	OpWrite    Op = "Write"
	OpDelete   Op = "Delete"
	OpListKeys Op = "List Keys"
	OpPublish  Op = "Publish"
	OpUsers    Op = "Users"
)

// APIError is returned by every Client call that fails.
type APIError struct {
	Kind       Kind
	Op         Op
	StatusCode int
	// Message is the "message" field of the error body, when there was one.
	Message string
	// Body is the raw response body.
	Body string
	Err  error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("roblox %s: %v", e.Op, e.Err)
	case KindParse:
		return fmt.Sprintf("roblox %s: decode response: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("roblox %s: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("roblox %s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("roblox %s: %s", e.Op, e.Kind)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Detail returns the most useful human-readable explanation from the
// response: the JSON message if present, else the raw body.
func (e *APIError) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Body
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 from Open Cloud or an empty lookup.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindNotFound
}

// IsPermissionDenied reports whether err is a 403 from Open Cloud.
func IsPermissionDenied(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindPermissionDenied
}

// statusError builds the APIError for a non-2xx response.
func statusError(op Op, status int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:       KindHTTPStatus,
		Op:         op,
		StatusCode: status,
		Body:       string(body),
	}
	switch status {
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case http.StatusForbidden:
		apiErr.Kind = KindPermissionDenied
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Message
	}
	return apiErr
}
