package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkErrorMessage is the message of every transport-level failure
const NetworkErrorMessage = "Network error: unable to reach the server"

// CodeMalformedResponse marks a 2xx response whose body was not JSON
const CodeMalformedResponse = "MALFORMED_RESPONSE"

// APIError is the single failure type surfaced by the client. Status 0
// means no response was received; 4xx/5xx means the server rejected the call.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsTransportFailure reports whether no response was received
func (e *APIError) IsTransportFailure() bool { return e.Status == 0 }

// StatusOf returns the status carried by err, or -1 when err is not an APIError
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// IsNotFound reports whether err is a 404 rejection
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsTransportFailure reports whether err is a status-0 failure
func IsTransportFailure(err error) bool {
	return StatusOf(err) == 0
}
