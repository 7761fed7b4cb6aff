// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/frontofhouse/reservations/internal/handler"
)

// RegisterRoutes registers the health check on the provided Echo
// instance.  Load balancers and monitoring systems use it to verify
// that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterReservations registers the reservation endpoints under /v1.
// Cancellation is reachable both as a status change and as a DELETE to
// match existing dashboard clients.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler) {
	g := e.Group("/v1/reservations")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id/edit", h.Update)
	g.PUT("/:id/status", h.Cancel)
	g.DELETE("/:id", h.Cancel)
}

// RegisterTables registers the table endpoints under /v1, including the
// seat and dismiss operations that drive the reservation lifecycle.
func RegisterTables(e *echo.Echo, h *handler.TableHandler) {
	g := e.Group("/v1/tables")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id/edit", h.Update)
	g.PUT("/:id/seat", h.Assign)
	g.DELETE("/:id/seat", h.Dismiss)
	g.DELETE("/:id", h.Delete)
}
