package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frontofhouse/reservations/internal/model"
)

// TableFilter selects which tables ListTables returns.
type TableFilter string

// Valid filters for ListTables.
const (
	FilterAll      TableFilter = "all"
	FilterFree     TableFilter = "free"
	FilterOccupied TableFilter = "occupied"
)

// TableRepo provides data access for the restaurant's physical tables.
// Occupancy writes are compare-and-set: the UPDATE carries a guard on
// the current reservation_id so that two concurrent assignments of the
// same table cannot both succeed, regardless of isolation level.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions.
func (r *TableRepo) DB() *sql.DB { return r.db }

const tableColumns = `id, table_name, capacity, reservation_id, created_at, updated_at`

func scanTable(row interface{ Scan(...interface{}) error }, t *model.Table) error {
	var resID sql.NullInt64
	if err := row.Scan(&t.ID, &t.TableName, &t.Capacity, &resID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	if resID.Valid {
		id := uint64(resID.Int64)
		t.ReservationID = &id
	} else {
		t.ReservationID = nil
	}
	return nil
}

// Create inserts a new table.  Tables are always created free.  On
// success the record is re-read to populate ID and timestamps.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (table_name, capacity) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, q, t.TableName, t.Capacity)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE id = ?`, t.ID), t)
}

// GetByID retrieves a table by its ID.  It returns ErrTableNotFound when
// no row exists.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	var t model.Table
	err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE id = ?`, id), &t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDTx is GetByID scoped to an existing transaction.
func (r *TableRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Table, error) {
	var t model.Table
	err := scanTable(tx.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE id = ?`, id), &t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns tables matching the filter ordered by name.  FilterFree
// selects tables with no reservation, FilterOccupied the opposite, and
// FilterAll everything.
func (r *TableRepo) List(ctx context.Context, filter TableFilter) ([]model.Table, error) {
	q := `SELECT ` + tableColumns + ` FROM tables`
	switch filter {
	case FilterFree:
		q += ` WHERE reservation_id IS NULL`
	case FilterOccupied:
		q += ` WHERE reservation_id IS NOT NULL`
	}
	q += ` ORDER BY table_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := scanTable(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields rewrites a table's name and capacity, then re-reads the
// record.  Occupancy is untouched; that goes through OccupyTx/FreeTx.
func (r *TableRepo) UpdateFields(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables SET table_name = ?, capacity = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, t.TableName, t.Capacity, now(), t.ID); err != nil {
		return err
	}
	return scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE id = ?`, t.ID), t)
}

// OccupyTx sets the table's reservation reference inside an existing
// transaction.  The write is guarded on the table still being free; when
// a concurrent assignment got there first it returns ErrNoRowsAffected.
func (r *TableRepo) OccupyTx(ctx context.Context, tx *sql.Tx, tableID, reservationID uint64) error {
	const q = `UPDATE tables SET reservation_id = ?, updated_at = ?
	           WHERE id = ? AND reservation_id IS NULL`
	result, err := tx.ExecContext(ctx, q, reservationID, now(), tableID)
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

// FreeTx clears the table's reservation reference inside an existing
// transaction, guarded on the table currently being occupied.
func (r *TableRepo) FreeTx(ctx context.Context, tx *sql.Tx, tableID uint64) error {
	const q = `UPDATE tables SET reservation_id = NULL, updated_at = ?
	           WHERE id = ? AND reservation_id IS NOT NULL`
	result, err := tx.ExecContext(ctx, q, now(), tableID)
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

// FreeByReservationTx clears the reservation reference from whichever
// table holds it, if any.  Used when a seated reservation is cancelled
// so the table never points at a non-seated reservation.
func (r *TableRepo) FreeByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	const q = `UPDATE tables SET reservation_id = NULL, updated_at = ? WHERE reservation_id = ?`
	_, err := tx.ExecContext(ctx, q, now(), reservationID)
	return err
}

// Delete removes a free table.  The delete is guarded on the table not
// being occupied; deleting an occupied table returns ErrNoRowsAffected
// even if the occupancy appeared between the caller's read and the write.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM tables WHERE id = ? AND reservation_id IS NULL`
	result, err := r.db.ExecContext(ctx, q, id)
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
