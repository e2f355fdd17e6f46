package api

import (
	"errors"
	"fmt"
)

// TransportError is the uniform failure shape for every network-layer
// problem: unreachable host, non-2xx status, or an undecodable body. Status
// is 0 when no HTTP response was received.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport error: %s", e.Message)
	}
	return fmt.Sprintf("transport error (status %d): %s", e.Status, e.Message)
}

// AsTransportError unwraps err into a *TransportError when possible.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
