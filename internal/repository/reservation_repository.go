package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/frontofhouse/reservations/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  All writes
// that participate in the assignment flow have Tx variants so the caller
// can group them with table occupancy updates into a single transaction.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, first_name, last_name, mobile_number,
	reservation_date, reservation_time, people, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }, res *model.Reservation) error {
	return row.Scan(
		&res.ID, &res.FirstName, &res.LastName, &res.MobileNumber,
		&res.ReservationDate, &res.ReservationTime, &res.People, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	)
}

// Create inserts a new reservation.  Status defaults to booked when not
// set.  On success the record is re-read so that the generated ID and
// the database-assigned timestamps are populated.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	if res.Status == "" {
		res.Status = model.StatusBooked
	}
	const q = `INSERT INTO reservations
	           (first_name, last_name, mobile_number, reservation_date, reservation_time, people, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.FirstName, res.LastName, res.MobileNumber,
		res.ReservationDate, res.ReservationTime, res.People, res.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, res.ID), res)
}

// GetByID retrieves a reservation by its ID.  It returns
// ErrReservationNotFound when no row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id), &res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// GetByIDTx is GetByID scoped to an existing transaction.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id), &res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// ListByDate returns all reservations on the given calendar date ordered
// by reservation_time ascending.  When no reservations exist an empty
// slice is returned.
func (r *ReservationRepo) ListByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations
	           WHERE reservation_date = ?
	           ORDER BY reservation_time`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields rewrites the editable fields of a reservation.  Status is
// deliberately untouched; status changes go through UpdateStatusTx so the
// lifecycle rules stay in one place.  The record is re-read afterwards.
func (r *ReservationRepo) UpdateFields(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET first_name = ?, last_name = ?, mobile_number = ?,
	               reservation_date = ?, reservation_time = ?, people = ?, updated_at = ?
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		res.FirstName, res.LastName, res.MobileNumber,
		res.ReservationDate, res.ReservationTime, res.People,
		now(), res.ID,
	)
	if err != nil {
		return err
	}
	return scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, res.ID), res)
}

// UpdateStatusTx transitions a reservation's status inside an existing
// transaction, guarded by the expected current status.  When the guard
// no longer matches (a concurrent request won the transition first) it
// returns ErrNoRowsAffected and writes nothing.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
	const q = `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := tx.ExecContext(ctx, q, to, now(), id, from)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// now formats the current UTC time the way both MySQL and SQLite store
// DATETIME values.
func now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
