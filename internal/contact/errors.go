package contact

import (
	"errors"
	"fmt"
)

// ErrNoDeliveryChannel is returned when production has no webhook configured.
// Production never falls back to the local file.
var ErrNoDeliveryChannel = errors.New("contact: no lead webhook configured in production")

// StatusError reports a non-2xx webhook response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contact: webhook returned status %d", e.StatusCode)
}
