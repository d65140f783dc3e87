package atol

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteRejection marks a structured error envelope returned by the
	// service. Errors wrapping it are *RemoteError.
	ErrRemoteRejection = errors.New("remote rejection")

	// ErrTransportFailure marks a connection failure, an unreadable
	// response or, in the v3 protocol, a non-200 status. Errors wrapping it
	// are *TransportError.
	ErrTransportFailure = errors.New("transport failure")
)

// RemoteError carries the service's error envelope verbatim.
type RemoteError struct {
	Operation  string
	StatusCode int
	Code       int
	ErrorID    string
	Text       string
	Type       string

	// UUID is set when the service assigned an id despite the error.
	UUID string
}

func (e *RemoteError) Error() string {
	id := e.ErrorID
	if id == "" {
		id = fmt.Sprintf("code %d", e.Code)
	}
	return fmt.Sprintf("atol %s rejected: %s - %s", e.Operation, id, e.Text)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemoteRejection
}

// TransportError describes a failed exchange that produced no usable
// envelope.
type TransportError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("atol %s: status %d: %v", e.Operation, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("atol %s: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("atol %s: unexpected status %d", e.Operation, e.StatusCode)
	}
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransportFailure}
	}
	return []error{ErrTransportFailure, e.Err}
}
