package booking

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/frontofhouse/reservations/internal/model"
	"github.com/frontofhouse/reservations/internal/repository"
)

// The table assignment engine.  Assignment and dismissal each run as a
// single transaction touching both entities; the occupancy writes are
// compare-and-set in the repository, so when two requests race for the
// same table the store serializes them and the loser surfaces here as a
// conflict.  A failed transaction rolls back both entities to their
// prior state.

// CreateTable validates and persists a new table.  Tables are created
// free.
func (s *Service) CreateTable(ctx context.Context, t *model.Table) (*model.Table, error) {
	if err := ValidateTable(t); err != nil {
		return nil, err
	}
	t.ReservationID = nil
	if err := s.tables.Create(ctx, t); err != nil {
		return nil, Storage(err)
	}
	logrus.WithFields(logrus.Fields{"table_id": t.ID, "table_name": t.TableName}).Info("table created")
	return t, nil
}

// GetTable fetches a table by ID.
func (s *Service) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := s.tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, E(KindNotFound, "The following 'table_id' could not be found: %d", id)
		}
		return nil, Storage(err)
	}
	return t, nil
}

// ListTables returns tables filtered by occupancy.  The filter accepts
// "all", "free" or "occupied"; an empty filter defaults to free.
func (s *Service) ListTables(ctx context.Context, filter string) ([]model.Table, error) {
	f := repository.TableFilter(filter)
	switch f {
	case "":
		f = repository.FilterFree
	case repository.FilterAll, repository.FilterFree, repository.FilterOccupied:
	default:
		return nil, E(KindInvalidFormat, "Unknown table filter '%s'; expected all, free or occupied.", filter)
	}
	out, err := s.tables.List(ctx, f)
	if err != nil {
		return nil, Storage(err)
	}
	return out, nil
}

// UpdateTable rewrites a table's name and capacity after re-running the
// table rules.  Occupancy is not editable through this path.
func (s *Service) UpdateTable(ctx context.Context, id uint64, fields *model.Table) (*model.Table, error) {
	current, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if verr := ValidateTable(fields); verr != nil {
		return nil, verr
	}
	current.TableName = fields.TableName
	current.Capacity = fields.Capacity
	if err := s.tables.UpdateFields(ctx, current); err != nil {
		return nil, Storage(err)
	}
	return current, nil
}

// AssignTable seats a booked reservation at a free table.  The checks
// run in a fixed order: existence of both entities, table occupancy,
// capacity, reservation status.  On success the table's reservation
// reference and the reservation's status are updated atomically.
func (s *Service) AssignTable(ctx context.Context, tableID, reservationID uint64) (*model.Table, error) {
	tx, err := s.tables.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, Storage(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	table, err := s.tables.GetByIDTx(ctx, tx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, E(KindNotFound, "The following 'table_id' could not be found: %d", tableID)
		}
		return nil, Storage(err)
	}
	res, err := s.reservations.GetByIDTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, E(KindNotFound, "Reservation '%d' does not exist.", reservationID)
		}
		return nil, Storage(err)
	}
	if table.Occupied() {
		return nil, E(KindTableOccupied, "The table is currently occupied. Please make another selection.")
	}
	if res.People > table.Capacity {
		return nil, E(KindInsufficientCapacity,
			"The selected table capacity cannot support the number of people in the reservation.")
	}
	if res.Status != model.StatusBooked {
		return nil, E(KindReservationAlreadySeated, "Reservation '%d' is already '%s'.", reservationID, res.Status)
	}
	if err := s.tables.OccupyTx(ctx, tx, tableID, reservationID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			// a concurrent assignment won the table
			return nil, E(KindTableOccupied, "The table is currently occupied. Please make another selection.")
		}
		return nil, Storage(err)
	}
	if err := s.reservations.UpdateStatusTx(ctx, tx, reservationID, model.StatusBooked, model.StatusSeated); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, E(KindAlreadySeated, "Reservation '%d' is no longer 'booked'.", reservationID)
		}
		return nil, Storage(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, Storage(err)
	}
	committed = true
	logrus.WithFields(logrus.Fields{
		"table_id":       tableID,
		"reservation_id": reservationID,
	}).Info("table assigned")
	table.ReservationID = &reservationID
	return table, nil
}

// DismissTable frees an occupied table and marks its reservation
// finished, atomically.  Dismissing a free table fails with
// TableNotOccupied.
func (s *Service) DismissTable(ctx context.Context, tableID uint64) (*model.Table, error) {
	tx, err := s.tables.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, Storage(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	table, err := s.tables.GetByIDTx(ctx, tx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, E(KindNotFound, "The following 'table_id' could not be found: %d", tableID)
		}
		return nil, Storage(err)
	}
	if !table.Occupied() {
		return nil, E(KindTableNotOccupied, "The selected table is not occupied.")
	}
	seated := *table.ReservationID
	if err := s.tables.FreeTx(ctx, tx, tableID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, E(KindTableNotOccupied, "The selected table is not occupied.")
		}
		return nil, Storage(err)
	}
	if err := s.reservations.UpdateStatusTx(ctx, tx, seated, model.StatusSeated, model.StatusFinished); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, E(KindNotSeated, "Reservation '%d' is not currently 'seated'.", seated)
		}
		return nil, Storage(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, Storage(err)
	}
	committed = true
	logrus.WithFields(logrus.Fields{
		"table_id":       tableID,
		"reservation_id": seated,
	}).Info("table dismissed")
	table.ReservationID = nil
	return table, nil
}

// DeleteTable removes a table.  Occupied tables cannot be deleted.
func (s *Service) DeleteTable(ctx context.Context, tableID uint64) error {
	table, err := s.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	if table.Occupied() {
		return E(KindTableOccupied, "An occupied table cannot be deleted.")
	}
	if err := s.tables.Delete(ctx, tableID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			// occupied (or already gone) since we looked
			return E(KindTableOccupied, "An occupied table cannot be deleted.")
		}
		return Storage(err)
	}
	logrus.WithField("table_id", tableID).Info("table deleted")
	return nil
}
