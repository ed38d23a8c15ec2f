package service

import (
	"errors"
	"fmt"
)

// The transport layer maps these onto response codes; everything a service
// returns wraps exactly one of them.
var (
	// ErrValidation marks malformed input or a missing correlation key.
	// Never retried.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is a hard error for owner-scoped operations. Webhook
	// branches that tolerate out-of-order delivery absorb the condition
	// as a no-op instead of returning it.
	ErrNotFound = errors.New("not found")
	// ErrUpstream marks a downstream collaborator failure. Surfaced so the
	// calling transport retries; local state is left unchanged.
	ErrUpstream = errors.New("upstream error")
	// ErrUnauthorized marks a signature or ownership failure. Never retried.
	ErrUnauthorized = errors.New("unauthorized")
)

func validationErr(format string, args ...any) error {
	return errors.Join(ErrValidation, fmt.Errorf(format, args...))
}

func notFoundErr(format string, args ...any) error {
	return errors.Join(ErrNotFound, fmt.Errorf(format, args...))
}

func upstreamErr(cause error) error {
	return errors.Join(ErrUpstream, cause)
}
