package api

import "fmt"

// APIError is an application-level rejection: the service answered with
// ok:false and an error code. It is recoverable per call.
type APIError struct {
	Endpoint string
	Code     string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: not ok", e.Endpoint)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Code)
}

// TransportError is a connection-level failure: DNS, connect, timeout,
// a non-2xx status, or an unreadable response body.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
