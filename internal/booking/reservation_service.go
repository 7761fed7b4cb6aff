package booking

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frontofhouse/reservations/internal/model"
	"github.com/frontofhouse/reservations/internal/repository"
)

// Service exposes the booking core: reservation lifecycle operations in
// this file and the table assignment engine in table_service.go.  All
// methods return either the updated entity or a typed *Error; they never
// retry, leaving that decision to the caller for storage faults.
type Service struct {
	reservations *repository.ReservationRepo
	tables       *repository.TableRepo
	hours        Hours

	// Clock is injectable for tests; defaults to time.Now.
	Clock func() time.Time
}

// NewService constructs the booking service.  All dependencies must be
// non-nil.
func NewService(reservations *repository.ReservationRepo, tables *repository.TableRepo, hours Hours) *Service {
	if reservations == nil || tables == nil {
		panic("nil repository passed to NewService")
	}
	if hours.Location == nil {
		hours.Location = time.UTC
	}
	return &Service{
		reservations: reservations,
		tables:       tables,
		hours:        hours,
		Clock:        time.Now,
	}
}

// CreateReservation validates the fields and persists a new reservation
// in the booked state.
func (s *Service) CreateReservation(ctx context.Context, res *model.Reservation) (*model.Reservation, error) {
	if err := ValidateReservation(res, s.hours, s.Clock()); err != nil {
		return nil, err
	}
	res.Status = model.StatusBooked
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, Storage(err)
	}
	logrus.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"date":           res.ReservationDate,
		"time":           res.ReservationTime,
		"people":         res.People,
	}).Info("reservation created")
	return res, nil
}

// GetReservation fetches a reservation by ID.
func (s *Service) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, E(KindNotFound, "The following reservation could not be found: %d.", id)
		}
		return nil, Storage(err)
	}
	return res, nil
}

// ListReservationsByDate returns the reservations on a calendar date
// ordered by time ascending.
func (s *Service) ListReservationsByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	if err := Required("date", date); err != nil {
		return nil, err
	}
	if _, err := ValidDate(date); err != nil {
		return nil, err
	}
	out, err := s.reservations.ListByDate(ctx, date)
	if err != nil {
		return nil, Storage(err)
	}
	return out, nil
}

// UpdateReservation rewrites the editable fields of a booked
// reservation.  Reservations that have been seated, finished or
// cancelled are no longer editable.  All validation rules are reapplied
// to the new field values.
func (s *Service) UpdateReservation(ctx context.Context, id uint64, fields *model.Reservation) (*model.Reservation, error) {
	current, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != model.StatusBooked {
		return nil, E(KindNotEditable, "Only a 'booked' reservation may be edited; this one is '%s'.", current.Status)
	}
	if verr := ValidateReservation(fields, s.hours, s.Clock()); verr != nil {
		return nil, verr
	}
	current.FirstName = fields.FirstName
	current.LastName = fields.LastName
	current.MobileNumber = fields.MobileNumber
	current.ReservationDate = fields.ReservationDate
	current.ReservationTime = fields.ReservationTime
	current.People = fields.People
	if err := s.reservations.UpdateFields(ctx, current); err != nil {
		return nil, Storage(err)
	}
	return current, nil
}

// CancelReservation moves a booked or seated reservation to cancelled.
// When the reservation is currently seated, the table holding it is
// freed in the same transaction so no table is left referencing a
// non-seated reservation.
func (s *Service) CancelReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	tx, err := s.reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, Storage(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := s.reservations.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, E(KindNotFound, "The following reservation could not be found: %d.", id)
		}
		return nil, Storage(err)
	}
	if res.Terminal() {
		return nil, E(KindNotEditable, "A '%s' reservation cannot be cancelled.", res.Status)
	}
	if res.Status == model.StatusSeated {
		if err := s.tables.FreeByReservationTx(ctx, tx, id); err != nil {
			return nil, Storage(err)
		}
	}
	if err := s.reservations.UpdateStatusTx(ctx, tx, id, res.Status, model.StatusCancelled); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, E(KindNotEditable, "The reservation changed state while cancelling; please retry.")
		}
		return nil, Storage(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, Storage(err)
	}
	committed = true
	logrus.WithField("reservation_id", id).Info("reservation cancelled")
	res.Status = model.StatusCancelled
	return res, nil
}
