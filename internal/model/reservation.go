package model

// Reservation status values.  A reservation starts out booked, becomes
// seated when a table is assigned to it, and ends up finished when the
// table is dismissed.  Cancellation is allowed from either non-terminal
// state; finished and cancelled are terminal.
const (
	StatusBooked    = "booked"
	StatusSeated    = "seated"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

// Reservation records a booked dining slot for a party.  Date and time
// are kept as strings in the same shape they are stored ("2006-01-02"
// and "15:04:05") so values round-trip through the database without
// time zone surprises; the booking rules parse them when validating.
//
// Fields:
//  ID              – primary key identifier.
//  FirstName       – guest first name.
//  LastName        – guest last name.
//  MobileNumber    – contact number for the party.
//  ReservationDate – calendar date of the reservation (ISO date).
//  ReservationTime – time of day of the reservation (ISO time).
//  People          – party size, always positive.
//  Status          – lifecycle state (booked, seated, finished, cancelled).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64 `json:"id"`               // reservations.id
	FirstName       string `json:"first_name"`       // reservations.first_name
	LastName        string `json:"last_name"`        // reservations.last_name
	MobileNumber    string `json:"mobile_number"`    // reservations.mobile_number
	ReservationDate string `json:"reservation_date"` // reservations.reservation_date
	ReservationTime string `json:"reservation_time"` // reservations.reservation_time
	People          int    `json:"people"`           // reservations.people
	Status          string `json:"status"`           // reservations.status
	CreatedAt       string `json:"created_at"`       // reservations.created_at
	UpdatedAt       string `json:"updated_at"`       // reservations.updated_at
}

// Terminal reports whether the reservation has reached a state it can
// never leave.
func (r *Reservation) Terminal() bool {
	return r.Status == StatusFinished || r.Status == StatusCancelled
}
