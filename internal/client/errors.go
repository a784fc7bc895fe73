package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidPayload is returned when a response decodes but does not have the
// expected shape.
var ErrInvalidPayload = errors.New("client: invalid response payload")

// ErrSessionRejected is returned by Verify when a 2xx answer says the session
// is not valid.
var ErrSessionRejected = errors.New("client: session rejected")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code,omitempty"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%d (%d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// parseError reads the API's {code, message} envelope. Bodies of another
// shape keep their raw text as the message.
func parseError(statusCode int, body []byte) error {
	var envelope struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		msg := envelope.Message
		if msg == "" {
			msg = envelope.Error
		}
		if msg != "" {
			return &APIError{StatusCode: statusCode, Code: envelope.Code, Message: msg}
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
