// Package handler defines the HTTP handlers for reservations and
// tables.  Handlers bind and decode requests, call into the booking
// service and translate its typed errors into HTTP responses; they
// contain no business rules of their own.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/frontofhouse/reservations/internal/booking"
)

// respondError maps a booking error kind onto an HTTP status: invalid
// input is 400, missing entities 404, state conflicts 409 and storage
// faults 503.  Anything unrecognised becomes a 500.
func respondError(c echo.Context, err error) error {
	kind := booking.KindOf(err)
	status := http.StatusInternalServerError
	switch {
	case kind == booking.KindNotFound:
		status = http.StatusNotFound
	case kind == booking.KindStorageUnavailable:
		status = http.StatusServiceUnavailable
	case kind.Validation():
		status = http.StatusBadRequest
	case kind != "":
		status = http.StatusConflict
	}
	return c.JSON(status, echo.Map{"error": err.Error(), "kind": string(kind)})
}

// pathID parses a numeric path parameter, rejecting zero and garbage.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
