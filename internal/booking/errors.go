// Package booking implements the reservation lifecycle and the table
// assignment engine.  It validates incoming reservations and tables,
// enforces the status state machines and keeps tables and reservations
// mutually consistent through transactional writes.
package booking

import (
	"errors"
	"fmt"
)

// Kind classifies a booking failure.  Validation kinds describe bad
// client input, conflict kinds describe state that forbids the requested
// transition, and KindStorageUnavailable marks store or connectivity
// faults which, unlike the rest, a caller may choose to retry.
type Kind string

const (
	KindMissingField             Kind = "MissingField"
	KindInvalidFormat            Kind = "InvalidFormat"
	KindInvalidNumber            Kind = "InvalidNumber"
	KindTooShort                 Kind = "TooShort"
	KindPastDate                 Kind = "PastDate"
	KindPastTime                 Kind = "PastTime"
	KindClosedDay                Kind = "ClosedDay"
	KindOutsideHours             Kind = "OutsideHours"
	KindNotFound                 Kind = "NotFound"
	KindTableOccupied            Kind = "TableOccupied"
	KindTableNotOccupied         Kind = "TableNotOccupied"
	KindInsufficientCapacity     Kind = "InsufficientCapacity"
	KindReservationAlreadySeated Kind = "ReservationAlreadySeated"
	KindAlreadySeated            Kind = "AlreadySeated"
	KindNotSeated                Kind = "NotSeated"
	KindNotEditable              Kind = "NotEditable"
	KindStorageUnavailable       Kind = "StorageUnavailable"
)

// Error is the single error type returned by the booking core.  Every
// failure path produces exactly one Error carrying a machine-checkable
// Kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause, if any, for errors.Is chains.
func (e *Error) Unwrap() error { return e.cause }

// E builds a booking error of the given kind.
func E(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a store or connectivity fault.  These are kept distinct
// from client errors so callers can decide to retry them.
func Storage(cause error) *Error {
	return &Error{
		Kind:    KindStorageUnavailable,
		Message: "storage unavailable: " + cause.Error(),
		cause:   cause,
	}
}

// KindOf extracts the Kind from err, or the empty string when err is not
// a booking error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// IsKind reports whether err is a booking error of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// Validation reports whether the kind describes invalid client input as
// opposed to a state conflict or a storage fault.
func (k Kind) Validation() bool {
	switch k {
	case KindMissingField, KindInvalidFormat, KindInvalidNumber, KindTooShort,
		KindPastDate, KindPastTime, KindClosedDay, KindOutsideHours:
		return true
	}
	return false
}
