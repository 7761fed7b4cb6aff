// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// TableSeatedEvent is published when a reservation is successfully
// seated at a table.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type TableSeatedEvent struct {
	TableID       uint64 `json:"table_id"`
	TableName     string `json:"table_name"`
	ReservationID uint64 `json:"reservation_id"`
	SeatedAt      string `json:"seated_at"`
}

// TableFreedEvent is published when a table is dismissed and its
// reservation finished.
type TableFreedEvent struct {
	TableID       uint64 `json:"table_id"`
	TableName     string `json:"table_name"`
	ReservationID uint64 `json:"reservation_id"`
	FreedAt       string `json:"freed_at"`
}
