package booking_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontofhouse/reservations/internal/booking"
	"github.com/frontofhouse/reservations/internal/model"
	"github.com/frontofhouse/reservations/internal/repository"
)

var testSchema = []string{
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
}

func setupService(t *testing.T) *booking.Service {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a second connection would see a different in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	svc := booking.NewService(repository.NewReservationRepo(db), repository.NewTableRepo(db), booking.DefaultHours(time.UTC))
	svc.Clock = func() time.Time { return fixedNow }
	return svc
}

func mustReservation(t *testing.T, svc *booking.Service, people int) *model.Reservation {
	t.Helper()
	res, err := svc.CreateReservation(context.Background(), &model.Reservation{
		FirstName:       "Frank",
		LastName:        "Zappa",
		MobileNumber:    "202-555-0199",
		ReservationDate: "2099-07-15",
		ReservationTime: "18:00",
		People:          people,
	})
	require.NoError(t, err)
	return res
}

func mustTable(t *testing.T, svc *booking.Service, name string, capacity int) *model.Table {
	t.Helper()
	tbl, err := svc.CreateTable(context.Background(), &model.Table{TableName: name, Capacity: capacity})
	require.NoError(t, err)
	return tbl
}

func TestCreateReservation(t *testing.T) {
	svc := setupService(t)
	res := mustReservation(t, svc, 4)

	assert.NotZero(t, res.ID)
	assert.Equal(t, model.StatusBooked, res.Status)
	assert.Equal(t, "18:00:00", res.ReservationTime)

	got, err := svc.GetReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.FirstName, got.FirstName)
	assert.Equal(t, res.People, got.People)
}

func TestCreateReservationRejected(t *testing.T) {
	svc := setupService(t)
	_, err := svc.CreateReservation(context.Background(), &model.Reservation{
		FirstName:       "Frank",
		LastName:        "Zappa",
		MobileNumber:    "202-555-0199",
		ReservationDate: "2099-07-14", // Tuesday
		ReservationTime: "18:00",
		People:          4,
	})
	require.Error(t, err)
	assert.Equal(t, booking.KindClosedDay, booking.KindOf(err))
}

func TestGetReservationNotFound(t *testing.T) {
	svc := setupService(t)
	_, err := svc.GetReservation(context.Background(), 999)
	assert.Equal(t, booking.KindNotFound, booking.KindOf(err))
}

func TestListReservationsByDate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	late := mustReservation(t, svc, 2)
	early, err := svc.CreateReservation(ctx, &model.Reservation{
		FirstName:       "Patti",
		LastName:        "Smith",
		MobileNumber:    "202-555-0101",
		ReservationDate: "2099-07-15",
		ReservationTime: "12:30",
		People:          2,
	})
	require.NoError(t, err)

	out, err := svc.ListReservationsByDate(ctx, "2099-07-15")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, early.ID, out[0].ID, "sorted by time ascending")
	assert.Equal(t, late.ID, out[1].ID)

	out, err = svc.ListReservationsByDate(ctx, "2099-07-16")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = svc.ListReservationsByDate(ctx, "")
	assert.Equal(t, booking.KindMissingField, booking.KindOf(err))
	_, err = svc.ListReservationsByDate(ctx, "not-a-date")
	assert.Equal(t, booking.KindInvalidFormat, booking.KindOf(err))
}

func TestUpdateReservation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 4)

	updated, err := svc.UpdateReservation(ctx, res.ID, &model.Reservation{
		FirstName:       "Frank",
		LastName:        "Zappa",
		MobileNumber:    "202-555-0199",
		ReservationDate: "2099-07-16",
		ReservationTime: "19:30",
		People:          6,
	})
	require.NoError(t, err)
	assert.Equal(t, "2099-07-16", updated.ReservationDate)
	assert.Equal(t, "19:30:00", updated.ReservationTime)
	assert.Equal(t, 6, updated.People)
	assert.Equal(t, model.StatusBooked, updated.Status)

	got, err := svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.People, got.People)
	assert.Equal(t, updated.ReservationDate, got.ReservationDate)
}

func TestUpdateReservationSameFieldsRoundTrip(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 4)

	fields := *res
	updated, err := svc.UpdateReservation(ctx, res.ID, &fields)
	require.NoError(t, err)

	assert.Equal(t, res.ID, updated.ID)
	assert.Equal(t, res.FirstName, updated.FirstName)
	assert.Equal(t, res.LastName, updated.LastName)
	assert.Equal(t, res.MobileNumber, updated.MobileNumber)
	assert.Equal(t, res.ReservationDate, updated.ReservationDate)
	assert.Equal(t, res.ReservationTime, updated.ReservationTime)
	assert.Equal(t, res.People, updated.People)
	assert.Equal(t, res.Status, updated.Status)
}

func TestUpdateReservationRejectsInvalidFields(t *testing.T) {
	svc := setupService(t)
	res := mustReservation(t, svc, 4)
	fields := *res
	fields.People = -1
	_, err := svc.UpdateReservation(context.Background(), res.ID, &fields)
	assert.Equal(t, booking.KindInvalidNumber, booking.KindOf(err))
}

func TestUpdateReservationNotEditableOnceSeated(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 2)
	tbl := mustTable(t, svc, "Bar #1", 2)
	_, err := svc.AssignTable(ctx, tbl.ID, res.ID)
	require.NoError(t, err)

	fields := *res
	fields.People = 1
	_, err = svc.UpdateReservation(ctx, res.ID, &fields)
	assert.Equal(t, booking.KindNotEditable, booking.KindOf(err))
}

func TestAssignTable(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 4)
	tbl := mustTable(t, svc, "Patio #1", 6)

	assigned, err := svc.AssignTable(ctx, tbl.ID, res.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.ReservationID)
	assert.Equal(t, res.ID, *assigned.ReservationID)

	got, err := svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSeated, got.Status)
}

func TestAssignTableChecks(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	t.Run("table not found", func(t *testing.T) {
		res := mustReservation(t, svc, 2)
		_, err := svc.AssignTable(ctx, 999, res.ID)
		assert.Equal(t, booking.KindNotFound, booking.KindOf(err))
	})

	t.Run("reservation not found", func(t *testing.T) {
		tbl := mustTable(t, svc, "Bar #2", 1)
		_, err := svc.AssignTable(ctx, tbl.ID, 999)
		assert.Equal(t, booking.KindNotFound, booking.KindOf(err))
	})

	t.Run("insufficient capacity", func(t *testing.T) {
		res := mustReservation(t, svc, 4)
		tbl := mustTable(t, svc, "Bar #3", 2)
		_, err := svc.AssignTable(ctx, tbl.ID, res.ID)
		assert.Equal(t, booking.KindInsufficientCapacity, booking.KindOf(err))
	})

	t.Run("table occupied", func(t *testing.T) {
		first := mustReservation(t, svc, 2)
		second := mustReservation(t, svc, 2)
		tbl := mustTable(t, svc, "Patio #2", 4)
		_, err := svc.AssignTable(ctx, tbl.ID, first.ID)
		require.NoError(t, err)
		_, err = svc.AssignTable(ctx, tbl.ID, second.ID)
		assert.Equal(t, booking.KindTableOccupied, booking.KindOf(err))
	})

	t.Run("reservation already seated", func(t *testing.T) {
		res := mustReservation(t, svc, 2)
		tbl := mustTable(t, svc, "Patio #3", 4)
		spare := mustTable(t, svc, "Patio #4", 4)
		_, err := svc.AssignTable(ctx, tbl.ID, res.ID)
		require.NoError(t, err)
		_, err = svc.AssignTable(ctx, spare.ID, res.ID)
		assert.Equal(t, booking.KindReservationAlreadySeated, booking.KindOf(err))

		// the losing assignment rolled back
		got, err := svc.GetTable(ctx, spare.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ReservationID)
	})
}

func TestDismissTable(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 2)
	tbl := mustTable(t, svc, "Stage Room #1", 4)
	_, err := svc.AssignTable(ctx, tbl.ID, res.ID)
	require.NoError(t, err)

	freed, err := svc.DismissTable(ctx, tbl.ID)
	require.NoError(t, err)
	assert.Nil(t, freed.ReservationID)

	got, err := svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinished, got.Status)

	_, err = svc.DismissTable(ctx, tbl.ID)
	assert.Equal(t, booking.KindTableNotOccupied, booking.KindOf(err))
}

func TestDismissTableNotOccupied(t *testing.T) {
	svc := setupService(t)
	tbl := mustTable(t, svc, "Stage Room #2", 4)
	_, err := svc.DismissTable(context.Background(), tbl.ID)
	assert.Equal(t, booking.KindTableNotOccupied, booking.KindOf(err))
}

func TestCancelReservation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 2)

	cancelled, err := svc.CancelReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// terminal states stay put
	_, err = svc.CancelReservation(ctx, res.ID)
	assert.Equal(t, booking.KindNotEditable, booking.KindOf(err))

	_, err = svc.CancelReservation(ctx, 999)
	assert.Equal(t, booking.KindNotFound, booking.KindOf(err))
}

func TestCancelSeatedReservationFreesTable(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 2)
	tbl := mustTable(t, svc, "Stage Room #3", 4)
	_, err := svc.AssignTable(ctx, tbl.ID, res.ID)
	require.NoError(t, err)

	cancelled, err := svc.CancelReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	got, err := svc.GetTable(ctx, tbl.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReservationID, "cancelling a seated reservation frees its table")
}

func TestListTables(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 2)
	occupied := mustTable(t, svc, "Bar #1", 2)
	free := mustTable(t, svc, "Bar #2", 2)
	_, err := svc.AssignTable(ctx, occupied.ID, res.ID)
	require.NoError(t, err)

	out, err := svc.ListTables(ctx, "")
	require.NoError(t, err)
	require.Len(t, out, 1, "default filter is free")
	assert.Equal(t, free.ID, out[0].ID)

	out, err = svc.ListTables(ctx, "occupied")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, occupied.ID, out[0].ID)

	out, err = svc.ListTables(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = svc.ListTables(ctx, "bogus")
	assert.Equal(t, booking.KindInvalidFormat, booking.KindOf(err))
}

func TestUpdateTable(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	tbl := mustTable(t, svc, "Bar #1", 2)

	updated, err := svc.UpdateTable(ctx, tbl.ID, &model.Table{TableName: "Bar #1 (window)", Capacity: 3})
	require.NoError(t, err)
	assert.Equal(t, "Bar #1 (window)", updated.TableName)
	assert.Equal(t, 3, updated.Capacity)

	_, err = svc.UpdateTable(ctx, tbl.ID, &model.Table{TableName: "B", Capacity: 3})
	assert.Equal(t, booking.KindTooShort, booking.KindOf(err))
}

func TestDeleteTable(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	res := mustReservation(t, svc, 2)
	occupied := mustTable(t, svc, "Bar #1", 2)
	free := mustTable(t, svc, "Bar #2", 2)
	_, err := svc.AssignTable(ctx, occupied.ID, res.ID)
	require.NoError(t, err)

	err = svc.DeleteTable(ctx, occupied.ID)
	assert.Equal(t, booking.KindTableOccupied, booking.KindOf(err))

	require.NoError(t, svc.DeleteTable(ctx, free.ID))
	_, err = svc.GetTable(ctx, free.ID)
	assert.Equal(t, booking.KindNotFound, booking.KindOf(err))

	err = svc.DeleteTable(ctx, 999)
	assert.Equal(t, booking.KindNotFound, booking.KindOf(err))
}
