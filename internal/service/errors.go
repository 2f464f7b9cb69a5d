package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Handlers map them to HTTP codes;
// none of them leak whether an account exists where that matters.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with uppercase, lowercase, number, and special character")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrAccountNotFound = errors.New("account not found")
	ErrSelfDeletion    = errors.New("cannot delete your own account")

	// ErrInvalidOrExpired covers every reset-token failure (unknown account,
	// hash mismatch, expired) — one error so callers cannot probe which it was.
	ErrInvalidOrExpired = errors.New("invalid or expired token")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("malformed token")
	ErrWrongPurpose   = errors.New("token issued for a different purpose")

	ErrQRNotFound    = errors.New("unknown scan token")
	ErrQRAlreadyUsed = errors.New("scan token already used")
	ErrQRExpired     = errors.New("scan token expired")

	ErrAlreadyRecorded = errors.New("attendance already recorded for today")
)

// LockedError reports a locked-out account with the minutes remaining, so the
// caller can act without being able to probe anything else.
type LockedError struct {
	MinutesRemaining int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked. Try again in %d minutes", e.MinutesRemaining)
}
