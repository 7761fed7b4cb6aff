package model

// Table describes a physical seating unit on the restaurant floor.
// ReservationID is a weak reference: when it is non-nil the table is
// occupied by that reservation, when nil the table is free.  The table
// never owns the reservation's lifetime; occupancy is only discoverable
// from the table side.
//
// Fields:
//  ID            – primary key identifier.
//  TableName     – human readable label such as "Bar #1"; at least two
//                  characters long.
//  Capacity      – maximum party size the table can seat, always positive.
//  ReservationID – reservation currently seated here, nil when free.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Table struct {
	ID            uint64  `json:"id"`             // tables.id
	TableName     string  `json:"table_name"`     // tables.table_name
	Capacity      int     `json:"capacity"`       // tables.capacity
	ReservationID *uint64 `json:"reservation_id"` // tables.reservation_id (nullable)
	CreatedAt     string  `json:"created_at"`     // tables.created_at
	UpdatedAt     string  `json:"updated_at"`     // tables.updated_at
}

// Occupied reports whether a reservation is currently seated at the table.
func (t *Table) Occupied() bool { return t.ReservationID != nil }
