package service

import (
	"errors"
	"fmt"
)

// Domain errors surfaced to callers. Controllers map these onto HTTP
// statuses; everything here is expected and recoverable by the client.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state for this operation")
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateClaim  = errors.New("claim already submitted for this item")
	ErrAlreadyClaimed  = errors.New("item already claimed by another user")
	ErrMissingProof    = errors.New("proof of ownership is required")
	ErrUpload          = errors.New("upload failed")
	ErrNotClaimed      = errors.New("item has not been claimed")
	ErrInvalidDecision = errors.New("decision must be 'approved' or 'rejected'")

	// ErrConsistency marks an earlier partial-failure bug surfacing on a
	// later read. It is reported, never silently repaired.
	ErrConsistency   = errors.New("consistency fault")
	ErrNoClaimRecord = fmt.Errorf("%w: item marked claimed but no claim record exists", ErrConsistency)

	ErrInvalidCredentials = errors.New("invalid email or password")
)

func validationf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, a...))
}
