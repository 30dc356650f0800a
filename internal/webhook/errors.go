package webhook

import (
	"errors"
	"fmt"
)

// Authentication failures. Deliveries failing signature verification must be
// rejected before any part of the body is interpreted.
var (
	ErrMissingSignature  = errors.New("missing signature")
	ErrSignatureMismatch = errors.New("signature verification failed")
)

// Protocol failures: the transport headers or body do not form a valid
// delivery.
var (
	ErrMissingTopic   = errors.New("missing topic header")
	ErrMalformedTopic = errors.New("malformed topic header")
	ErrInvalidPayload = errors.New("invalid json payload")
)

// UnrecognizedTopicError reports a topic whose action verb is outside the
// known vocabulary. No store mutation is attempted for such deliveries.
type UnrecognizedTopicError struct {
	Topic string
}

func (e *UnrecognizedTopicError) Error() string {
	return fmt.Sprintf("unrecognized topic %q", e.Topic)
}

// StoreError wraps a failed document store mutation. The underlying store
// error is surfaced as-is; the pipeline performs no retries.
type StoreError struct {
	Op       string
	Resource string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s on %s: %v", e.Op, e.Resource, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err is a signature failure.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrMissingSignature) || errors.Is(err, ErrSignatureMismatch)
}

// IsProtocolError reports whether err is a malformed-delivery failure.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrMissingTopic) ||
		errors.Is(err, ErrMalformedTopic) ||
		errors.Is(err, ErrInvalidPayload)
}

// IsUnrecognizedTopic reports whether err is an unknown-action failure.
func IsUnrecognizedTopic(err error) bool {
	var ute *UnrecognizedTopicError
	return errors.As(err, &ute)
}

// IsStoreError reports whether err originated in the document store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
