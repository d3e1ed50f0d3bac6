// Package services defines the business logic for accounts, journal
// messages, emotion analysis, and music recommendations. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrMessageNotFound indicates that the requested message does not exist
	// or is not accessible to the current user.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEmptyText is returned when a request to create or analyze a message
	// contains empty text.
	ErrEmptyText = errors.New("text is empty")

	// ErrTooLong is returned when message text exceeds the maximum configured
	// length limit.
	ErrTooLong = errors.New("text too long")

	// ErrBatchTooLarge is returned when a batch analysis request exceeds the
	// per-request item cap.
	ErrBatchTooLarge = errors.New("too many items in batch")

	// ErrEmailTaken is returned when signing up with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login fails. It deliberately
	// does not distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword is returned when a signup password fails the minimum
	// length requirement.
	ErrWeakPassword = errors.New("password too short")

	// ErrNotAnalyzed indicates a recommendation was requested for a message
	// that has no stored analysis.
	ErrNotAnalyzed = errors.New("message has no analysis")
)
