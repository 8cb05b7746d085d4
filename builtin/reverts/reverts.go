// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert by how the caller may react to it.
type Kind uint8

const (
	// Unknown is reported for errors that are not reverts, e.g. storage failures.
	Unknown Kind = iota
	// Validation means malformed input, safe to retry with corrected input.
	Validation
	// State means the transition is illegal given current ledger state.
	State
	// Authorization means the caller lacks the required role.
	Authorization
	// Availability means the system is halted, retryable once resumed.
	Availability
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case State:
		return "state"
	case Authorization:
		return "authorization"
	case Availability:
		return "availability"
	default:
		return "unknown"
	}
}

// ErrRevert is a business failure. Nothing is changed when an operation reverts.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

var (
	ErrInvalidAmount    = New(Validation, "invalid amount")
	ErrDurationTooShort = New(Validation, "duration too short")
	ErrDurationTooLong  = New(Validation, "duration too long")
	ErrInvalidRange     = New(Validation, "invalid range")
	ErrRateTooHigh      = New(Validation, "rate too high")
	ErrInvalidRole      = New(Validation, "invalid role")
	ErrInvalidAccount   = New(Validation, "invalid account")

	ErrStakeNotFound        = New(State, "stake not found")
	ErrAlreadyWithdrawn     = New(State, "already withdrawn")
	ErrSlashExceedsHoldings = New(State, "slash exceeds holdings")
	ErrInsufficientBalance  = New(State, "insufficient balance")
	ErrReentrantCall        = New(State, "reentrant call")
	ErrAlreadyHalted        = New(State, "already halted")
	ErrNotHalted            = New(State, "not halted")

	ErrUnauthorized = New(Authorization, "unauthorized")

	ErrSystemHalted = New(Availability, "system halted")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, Unknown otherwise.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}

// Retryable reports whether the same call may succeed later without changing its input.
func Retryable(err error) bool {
	return KindOf(err) == Availability
}
