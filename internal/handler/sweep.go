package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-reservation/internal/sweeper"
)

// SweepHandler exposes the expiration sweeper over HTTP: an on-demand
// sweep, a service description, and the per-booking countdown used by the
// dashboard.
type SweepHandler struct {
	Sweeper *sweeper.Sweeper
}

func NewSweepHandler(s *sweeper.Sweeper) *SweepHandler {
	if s == nil {
		panic("nil sweeper passed to NewSweepHandler")
	}
	return &SweepHandler{Sweeper: s}
}

// ExpirePending handles POST /v1/bookings/expire-pending.  It runs one
// sweep immediately and reports the outcome.  Infrastructure failures
// come back as success=false with a 500 so callers can retry.
func (h *SweepHandler) ExpirePending(c echo.Context) error {
	res := h.Sweeper.Sweep(c.Request().Context())
	if !res.Success {
		return c.JSON(http.StatusInternalServerError, res)
	}
	return c.JSON(http.StatusOK, res)
}

// DescribeExpirePending handles GET /v1/bookings/expire-pending with a
// static description of the sweep service.
func (h *SweepHandler) DescribeExpirePending(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"service":     "auto-cancelación de reservas pendientes",
		"descripcion": "cancela reservas en estado pendiente con más de 5 minutos de antigüedad",
		"metodo":      "POST",
	})
}

// TimeRemaining handles GET /v1/bookings/:id/time-remaining.  Only
// pending bookings have a countdown; anything else is a 404.
func (h *SweepHandler) TimeRemaining(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rem, err := h.Sweeper.TimeRemaining(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if rem == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reserva pendiente no encontrada"})
	}
	return c.JSON(http.StatusOK, rem)
}
