package services

import (
	"fmt"
	"net/http"
)

// APIError is a service failure that maps directly to an HTTP status and a
// client-safe message. Anything else bubbling out of a service is a server
// fault and must not leak to the client.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func badRequestf(format string, args ...interface{}) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}
