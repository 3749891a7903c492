package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by screens, coordinators and the remote gateway.
var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidTransition       = errors.New("invalid participant status transition")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrNotificationsDisabled   = errors.New("email notifications are disabled")
	ErrMutationInFlight        = errors.New("mutation already in progress")
	ErrNotLoaded               = errors.New("screen data not loaded")
)

// GatewayErrorKind classifies a remote failure.
type GatewayErrorKind string

const (
	// KindTransport is a network level failure (dial, timeout, reset).
	KindTransport GatewayErrorKind = "transport"

	// KindStatus is a non-2xx HTTP response.
	KindStatus GatewayErrorKind = "status"

	// KindRejected is a 2xx response carrying success:false.
	KindRejected GatewayErrorKind = "rejected"

	// KindMalformed is a payload that could not be decoded into the expected shape.
	KindMalformed GatewayErrorKind = "malformed"
)

// GatewayError is the failure branch of every RemoteGateway operation.
// Message is always safe to show to the user.
type GatewayError struct {
	Op         string
	Kind       GatewayErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// UserMessage returns the message carried by a GatewayError anywhere in err's chain,
// or fallback when there is none.
func UserMessage(err error, fallback string) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return fallback
}
