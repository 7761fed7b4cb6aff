package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/frontofhouse/reservations/internal/booking"
	"github.com/frontofhouse/reservations/internal/model"
	"github.com/frontofhouse/reservations/internal/queue"
	queue_publisher "github.com/frontofhouse/reservations/internal/service"
)

// TableHandler serves the table endpoints, including the seat/dismiss
// operations that drive the reservation lifecycle.  Seating events are
// published to the broker after the transaction commits; publish
// failures are logged and ignored so the request still succeeds.
type TableHandler struct {
	Booking *booking.Service
}

// NewTableHandler constructs a TableHandler.  The booking service must
// be non-nil.
func NewTableHandler(svc *booking.Service) *TableHandler {
	if svc == nil {
		panic("nil booking service passed to NewTableHandler")
	}
	return &TableHandler{Booking: svc}
}

type tableBody struct {
	TableName string `json:"table_name"`
	Capacity  int    `json:"capacity"`
}

// List handles GET /v1/tables?status=all|free|occupied (default free).
func (h *TableHandler) List(c echo.Context) error {
	out, err := h.Booking.ListTables(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// Create handles POST /v1/tables.
func (h *TableHandler) Create(c echo.Context) error {
	var body tableBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	t, err := h.Booking.CreateTable(c.Request().Context(), &model.Table{
		TableName: body.TableName,
		Capacity:  body.Capacity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": t})
}

// Get handles GET /v1/tables/:id.
func (h *TableHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	t, err := h.Booking.GetTable(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": t})
}

// Update handles PUT /v1/tables/:id/edit.
func (h *TableHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body tableBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	t, err := h.Booking.UpdateTable(c.Request().Context(), id, &model.Table{
		TableName: body.TableName,
		Capacity:  body.Capacity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": t})
}

// Assign handles PUT /v1/tables/:id/seat.  The body carries the
// reservation to seat; on success the table is occupied and the
// reservation is seated, atomically.
func (h *TableHandler) Assign(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body struct {
		ReservationID uint64 `json:"reservation_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "A 'reservation_id' is required."})
	}
	t, err := h.Booking.AssignTable(c.Request().Context(), id, body.ReservationID)
	if err != nil {
		return respondError(c, err)
	}
	if perr := queue_publisher.PublishTableSeated(c.Request().Context(), queue.TableSeatedEvent{
		TableID:       t.ID,
		TableName:     t.TableName,
		ReservationID: body.ReservationID,
		SeatedAt:      time.Now().UTC().Format(time.RFC3339),
	}); perr != nil {
		logrus.WithError(perr).Warn("table.seated event not published")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": t})
}

// Dismiss handles DELETE /v1/tables/:id/seat.  The table is freed and
// its reservation finished, atomically.
func (h *TableHandler) Dismiss(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	before, err := h.Booking.GetTable(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	t, err := h.Booking.DismissTable(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	var reservationID uint64
	if before.ReservationID != nil {
		reservationID = *before.ReservationID
	}
	if perr := queue_publisher.PublishTableFreed(c.Request().Context(), queue.TableFreedEvent{
		TableID:       t.ID,
		TableName:     t.TableName,
		ReservationID: reservationID,
		FreedAt:       time.Now().UTC().Format(time.RFC3339),
	}); perr != nil {
		logrus.WithError(perr).Warn("table.freed event not published")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": t})
}

// Delete handles DELETE /v1/tables/:id.  Occupied tables cannot be
// deleted.
func (h *TableHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.Booking.DeleteTable(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
