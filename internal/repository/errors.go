// Package repository defines data access for reservations and tables.
// This file holds sentinel errors shared by the repositories so that
// higher layers can distinguish failure scenarios without inspecting
// driver-specific errors.
package repository

import "errors"

// ErrReservationNotFound is returned when a reservation lookup yields no rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrTableNotFound is returned when a table lookup yields no rows.
var ErrTableNotFound = errors.New("table not found")

// ErrNoRowsAffected is returned by guarded (compare-and-set) writes when
// the row no longer satisfies the guard, e.g. occupying a table that was
// grabbed by a concurrent request between read and write.  Callers
// translate it into the appropriate conflict error.
var ErrNoRowsAffected = errors.New("no rows affected")
