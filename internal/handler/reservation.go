package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/frontofhouse/reservations/internal/booking"
	"github.com/frontofhouse/reservations/internal/model"
)

// ReservationHandler serves the reservation endpoints.
type ReservationHandler struct {
	Booking *booking.Service
}

// NewReservationHandler constructs a ReservationHandler.  The booking
// service must be non-nil.
func NewReservationHandler(svc *booking.Service) *ReservationHandler {
	if svc == nil {
		panic("nil booking service passed to NewReservationHandler")
	}
	return &ReservationHandler{Booking: svc}
}

// reservationBody is the JSON shape accepted on create and update.
type reservationBody struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MobileNumber    string `json:"mobile_number"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	People          int    `json:"people"`
}

func (b *reservationBody) toModel() *model.Reservation {
	return &model.Reservation{
		FirstName:       b.FirstName,
		LastName:        b.LastName,
		MobileNumber:    b.MobileNumber,
		ReservationDate: b.ReservationDate,
		ReservationTime: b.ReservationTime,
		People:          b.People,
	}
}

// List handles GET /v1/reservations?date=YYYY-MM-DD.  Reservations are
// returned ordered by time ascending.
func (h *ReservationHandler) List(c echo.Context) error {
	out, err := h.Booking.ListReservationsByDate(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Booking.CreateReservation(c.Request().Context(), body.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": res})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Booking.GetReservation(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// Update handles PUT /v1/reservations/:id/edit.  Only booked
// reservations are editable; all field rules are reapplied.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Booking.UpdateReservation(c.Request().Context(), id, body.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// Cancel handles PUT /v1/reservations/:id/status with {"status":
// "cancelled"} and DELETE /v1/reservations/:id.  Seating and finishing
// happen exclusively through the table endpoints, so cancellation is the
// only status change accepted here.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if c.Request().Method == http.MethodPut {
		var body struct {
			Status string `json:"status"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}
		if body.Status != model.StatusCancelled {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "only a 'cancelled' status may be requested here"})
		}
	}
	res, err := h.Booking.CancelReservation(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}
