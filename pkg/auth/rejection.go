package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Reason classifies why a presented token was not accepted. It is logged and
// counted, never returned to clients.
type Reason string

const (
	ReasonMissing       Reason = "missing"
	ReasonMalformed     Reason = "malformed"
	ReasonBadSignature  Reason = "bad_signature"
	ReasonExpired       Reason = "expired"
	ReasonRevoked       Reason = "revoked"
	ReasonStaleIdentity Reason = "stale_identity"
)

// Reasons lists every rejection reason in a stable order.
var Reasons = []Reason{
	ReasonMissing,
	ReasonMalformed,
	ReasonBadSignature,
	ReasonExpired,
	ReasonRevoked,
	ReasonStaleIdentity,
}

// RejectionError is returned by token verification and the auth gate.
type RejectionError struct {
	Reason Reason
	Err    error
}

func (e *RejectionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("token rejected: %s", e.Reason)
	}
	return fmt.Sprintf("token rejected: %s: %v", e.Reason, e.Err)
}

func (e *RejectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reject builds a RejectionError for reason, optionally wrapping a cause.
func Reject(reason Reason, err error) *RejectionError {
	return &RejectionError{Reason: reason, Err: err}
}

// RejectionReason extracts the rejection reason from err, if any.
func RejectionReason(err error) (Reason, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) && rejection != nil {
		return rejection.Reason, true
	}
	return "", false
}

func classifyParseError(err error) *RejectionError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Reject(ReasonExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return Reject(ReasonBadSignature, err)
	default:
		return Reject(ReasonMalformed, err)
	}
}
