package booking

import (
	"time"

	"github.com/frontofhouse/reservations/internal/model"
)

// Hours is the restaurant's immutable scheduling configuration.  It is
// built once at startup and passed into the booking service; the rules
// never consult process-wide state.
//
// OpenAt and LastSeating are minutes since midnight in the restaurant's
// time zone.  LastSeating is the latest acceptable reservation time,
// already one hour before the actual close (21:30 for a 22:30 close).
type Hours struct {
	Location    *time.Location
	OpenAt      int
	LastSeating int
	ClosedDay   time.Weekday
}

// DefaultHours returns the standard configuration: open 10:30, last
// seating 21:30, closed on Tuesdays, clock in the given location.
func DefaultHours(loc *time.Location) Hours {
	if loc == nil {
		loc = time.UTC
	}
	return Hours{
		Location:    loc,
		OpenAt:      10*60 + 30,
		LastSeating: 21*60 + 30,
		ClosedDay:   time.Tuesday,
	}
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Each rule below is a side-effect-free predicate returning nil on pass
// or a typed error naming the first violated constraint.  The composed
// validators run them in a fixed order so the reported error is stable.

// Required fails when a named field is absent or empty.
func Required(name, value string) *Error {
	if value == "" {
		return E(KindMissingField, "A '%s' is required.", name)
	}
	return nil
}

// ValidDate parses an ISO calendar date.
func ValidDate(value string) (time.Time, *Error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, E(KindInvalidFormat, "A valid 'reservation_date' must be provided.")
	}
	return d, nil
}

// ValidTime parses an ISO time of day, accepting "15:04" or "15:04:05".
// It returns the minutes since midnight and the normalized "15:04:05"
// form used for storage.
func ValidTime(value string) (int, string, *Error) {
	var t time.Time
	var err error
	if t, err = time.Parse("15:04:05", value); err != nil {
		if t, err = time.Parse("15:04", value); err != nil {
			return 0, "", E(KindInvalidFormat, "A valid 'reservation_time' is required.")
		}
	}
	return t.Hour()*60 + t.Minute(), t.Format(timeLayout), nil
}

// NotInPast fails when the reservation date is before today's civil date.
func NotInPast(date time.Time, now time.Time, loc *time.Location) *Error {
	today := now.In(loc).Format(dateLayout)
	if date.Format(dateLayout) < today {
		return E(KindPastDate, "The 'reservation_date' must be in the future.")
	}
	return nil
}

// NotClosedDay fails when the date falls on the weekly closure.
func NotClosedDay(date time.Time, closed time.Weekday) *Error {
	if date.Weekday() == closed {
		return E(KindClosedDay, "The restaurant is closed on %ss.", closed)
	}
	return nil
}

// NotPastTimeToday fails only for same-day reservations whose time has
// already passed in the restaurant's local time.
func NotPastTimeToday(date time.Time, minutes int, now time.Time, loc *time.Location) *Error {
	local := now.In(loc)
	if date.Format(dateLayout) != local.Format(dateLayout) {
		return nil
	}
	if minutes < local.Hour()*60+local.Minute() {
		return E(KindPastTime, "Reservation must be made after %s.", local.Format("3:04 PM"))
	}
	return nil
}

// WithinOperatingWindow fails when the time is before opening or after
// the last-seating cutoff.
func WithinOperatingWindow(minutes int, hours Hours) *Error {
	if minutes < hours.OpenAt {
		return E(KindOutsideHours, "The restaurant does not open until 10:30 AM.")
	}
	if minutes > hours.LastSeating {
		return E(KindOutsideHours,
			"The restaurant closes at 10:30 PM. Please make a reservation at least an hour before closing time.")
	}
	return nil
}

// PositiveNumber fails unless n is a positive integer.
func PositiveNumber(name string, n int) *Error {
	if n <= 0 {
		return E(KindInvalidNumber, "The '%s' value must be a number greater than zero.", name)
	}
	return nil
}

// MinLength fails unless the text is at least n characters long.
func MinLength(name, value string, n int) *Error {
	if len(value) < n {
		return E(KindTooShort, "A '%s' must be at least %d characters long.", name, n)
	}
	return nil
}

// ValidateReservation runs every reservation rule in order and returns
// the first failure.  On success the reservation's time is normalized to
// the stored "15:04:05" form.
func ValidateReservation(res *model.Reservation, hours Hours, now time.Time) *Error {
	for _, check := range []struct{ name, value string }{
		{"first_name", res.FirstName},
		{"last_name", res.LastName},
		{"mobile_number", res.MobileNumber},
		{"reservation_date", res.ReservationDate},
		{"reservation_time", res.ReservationTime},
	} {
		if err := Required(check.name, check.value); err != nil {
			return err
		}
	}
	if res.People == 0 {
		return E(KindMissingField, "A 'people' value is required.")
	}
	date, err := ValidDate(res.ReservationDate)
	if err != nil {
		return err
	}
	if err := NotInPast(date, now, hours.Location); err != nil {
		return err
	}
	if err := NotClosedDay(date, hours.ClosedDay); err != nil {
		return err
	}
	minutes, normalized, err := ValidTime(res.ReservationTime)
	if err != nil {
		return err
	}
	if err := NotPastTimeToday(date, minutes, now, hours.Location); err != nil {
		return err
	}
	if err := WithinOperatingWindow(minutes, hours); err != nil {
		return err
	}
	if err := PositiveNumber("people", res.People); err != nil {
		return err
	}
	res.ReservationTime = normalized
	return nil
}

// ValidateTable runs every table rule in order and returns the first
// failure.
func ValidateTable(t *model.Table) *Error {
	if err := Required("table_name", t.TableName); err != nil {
		return err
	}
	if t.Capacity == 0 {
		return E(KindMissingField, "A 'capacity' is required.")
	}
	if err := MinLength("table_name", t.TableName, 2); err != nil {
		return err
	}
	return PositiveNumber("capacity", t.Capacity)
}
