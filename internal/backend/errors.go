package backend

import (
	"errors"
	"fmt"
	"net/url"
)

// TransportError is returned when no usable response was received: the
// service was unreachable, the body could not be read or was not the
// expected JSON envelope.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detail is the user-facing description of the failure without the
// operation prefix or request URL.
func (e *TransportError) Detail() string {
	var uerr *url.Error
	if errors.As(e.Err, &uerr) {
		return uerr.Err.Error()
	}
	return e.Err.Error()
}

// APIError is returned when a binary endpoint answers with a non-2xx status.
// Message holds the service's error text and is empty when the body carried
// none.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
