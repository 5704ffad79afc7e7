// Package common — errors.go defines the sentinel errors shared by every
// feature. Handlers match them with errors.Is to pick the reply shown to the user.
package common

import "errors"

// Ledger errors
var (
	// ErrInvalidAmount — zero, negative or unparsable amount
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrUserNotFound — no account row for the user
	ErrUserNotFound = errors.New("user not found")
	// ErrPointsSuspended — earning is blocked while the account is suspended
	ErrPointsSuspended = errors.New("points earning is suspended for this user")
)

// Shop errors
var (
	// ErrRewardNotFound — redeem was called with an unknown reward id
	ErrRewardNotFound = errors.New("reward not found")
	// ErrInsufficientPoints — balance is lower than the reward cost
	ErrInsufficientPoints = errors.New("not enough points")
)

// Resource review errors
var (
	// ErrNoPendingSubmission — the user has nothing waiting for review
	ErrNoPendingSubmission = errors.New("no pending resource submission")
	// ErrDescriptionTooShort — submission description under the minimum length
	ErrDescriptionTooShort = errors.New("resource description is too short")
)
