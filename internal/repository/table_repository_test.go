package repository_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontofhouse/reservations/internal/model"
	"github.com/frontofhouse/reservations/internal/repository"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			mobile_number TEXT NOT NULL,
			reservation_date TEXT NOT NULL,
			reservation_time TEXT NOT NULL,
			people INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'booked',
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE tables (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			table_name TEXT NOT NULL,
			capacity INTEGER NOT NULL,
			reservation_id INTEGER,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx) error) error {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	require.NoError(t, tx.Commit())
	return nil
}

func TestTableRepoOccupyGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTableRepo(db)
	ctx := context.Background()

	tbl := &model.Table{TableName: "Bar #1", Capacity: 2}
	require.NoError(t, repo.Create(ctx, tbl))
	assert.Nil(t, tbl.ReservationID)

	err := inTx(t, db, func(tx *sql.Tx) error {
		return repo.OccupyTx(ctx, tx, tbl.ID, 7)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, tbl.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReservationID)
	assert.Equal(t, uint64(7), *got.ReservationID)

	// the guard rejects a second occupancy without overwriting
	err = inTx(t, db, func(tx *sql.Tx) error {
		return repo.OccupyTx(ctx, tx, tbl.ID, 8)
	})
	assert.ErrorIs(t, err, repository.ErrNoRowsAffected)

	got, err = repo.GetByID(ctx, tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), *got.ReservationID)
}

func TestTableRepoFreeGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTableRepo(db)
	ctx := context.Background()

	tbl := &model.Table{TableName: "Bar #2", Capacity: 2}
	require.NoError(t, repo.Create(ctx, tbl))

	err := inTx(t, db, func(tx *sql.Tx) error {
		return repo.FreeTx(ctx, tx, tbl.ID)
	})
	assert.ErrorIs(t, err, repository.ErrNoRowsAffected, "freeing a free table affects no rows")

	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.OccupyTx(ctx, tx, tbl.ID, 3)
	}))
	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.FreeTx(ctx, tx, tbl.ID)
	}))

	got, err := repo.GetByID(ctx, tbl.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReservationID)
}

func TestTableRepoFreeByReservation(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTableRepo(db)
	ctx := context.Background()

	held := &model.Table{TableName: "Patio #1", Capacity: 4}
	other := &model.Table{TableName: "Patio #2", Capacity: 4}
	require.NoError(t, repo.Create(ctx, held))
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.OccupyTx(ctx, tx, held.ID, 5)
	}))
	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.OccupyTx(ctx, tx, other.ID, 6)
	}))

	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.FreeByReservationTx(ctx, tx, 5)
	}))

	got, err := repo.GetByID(ctx, held.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReservationID)
	got, err = repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReservationID)
	assert.Equal(t, uint64(6), *got.ReservationID)
}

func TestTableRepoDeleteGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTableRepo(db)
	ctx := context.Background()

	tbl := &model.Table{TableName: "Bar #3", Capacity: 1}
	require.NoError(t, repo.Create(ctx, tbl))
	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.OccupyTx(ctx, tx, tbl.ID, 9)
	}))

	assert.ErrorIs(t, repo.Delete(ctx, tbl.ID), repository.ErrNoRowsAffected)

	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.FreeTx(ctx, tx, tbl.ID)
	}))
	require.NoError(t, repo.Delete(ctx, tbl.ID))
	_, err := repo.GetByID(ctx, tbl.ID)
	assert.ErrorIs(t, err, repository.ErrTableNotFound)
}

func TestTableRepoListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTableRepo(db)
	ctx := context.Background()

	a := &model.Table{TableName: "A", Capacity: 2}
	b := &model.Table{TableName: "B", Capacity: 2}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.OccupyTx(ctx, tx, b.ID, 1)
	}))

	free, err := repo.List(ctx, repository.FilterFree)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, a.ID, free[0].ID)

	occupied, err := repo.List(ctx, repository.FilterOccupied)
	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.Equal(t, b.ID, occupied[0].ID)

	all, err := repo.List(ctx, repository.FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReservationRepoStatusGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewReservationRepo(db)
	ctx := context.Background()

	res := &model.Reservation{
		FirstName:       "Ornette",
		LastName:        "Coleman",
		MobileNumber:    "202-555-0111",
		ReservationDate: "2099-07-15",
		ReservationTime: "18:00:00",
		People:          2,
	}
	require.NoError(t, repo.Create(ctx, res))
	assert.Equal(t, model.StatusBooked, res.Status)

	require.NoError(t, inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpdateStatusTx(ctx, tx, res.ID, model.StatusBooked, model.StatusSeated)
	}))

	// stale expected status leaves the row untouched
	err := inTx(t, db, func(tx *sql.Tx) error {
		return repo.UpdateStatusTx(ctx, tx, res.ID, model.StatusBooked, model.StatusCancelled)
	})
	assert.ErrorIs(t, err, repository.ErrNoRowsAffected)

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSeated, got.Status)
}
