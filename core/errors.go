package core

import "errors"

// The closed set of authentication failures. Store and codec adapters never
// surface anything outside this list across their public boundary.
var (
	ErrInvalidNonce     = errors.New("invalid or expired nonce")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidSession   = errors.New("invalid session")
	ErrInvalidAddress   = errors.New("invalid account address")
	ErrStoreUnavailable = errors.New("store operation failed")
)

// APIError is an error carrying its own HTTP status. It is the only error
// type the transport layer serializes verbatim; everything else is flattened
// to a generic response for its mapped status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError returns an APIError with the given status and client-safe message.
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}
