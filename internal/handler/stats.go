package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-reservation/internal/repository"
)

// StatsHandler serves the aggregate figures behind the dashboard cards
// and charts.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

func NewStatsHandler(s *repository.StatsRepo) *StatsHandler {
	if s == nil {
		panic("nil repository passed to NewStatsHandler")
	}
	return &StatsHandler{Stats: s}
}

// statsDate resolves the optional ?date= parameter, defaulting to today.
func statsDate(c echo.Context) (string, bool) {
	raw := c.QueryParam("date")
	if raw == "" {
		return time.Now().UTC().Format("2006-01-02"), true
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", false
	}
	return raw, true
}

// Dashboard handles GET /v1/stats/dashboard?date=.
func (h *StatsHandler) Dashboard(c echo.Context) error {
	fecha, ok := statsDate(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha inválida, use el formato YYYY-MM-DD"})
	}
	stats, err := h.Stats.Dashboard(c.Request().Context(), fecha)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, stats)
}

// Weekly handles GET /v1/stats/weekly: bookings per weekday over the last
// seven days.
func (h *StatsHandler) Weekly(c echo.Context) error {
	counts, err := h.Stats.Weekly(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": counts})
}

// Hourly handles GET /v1/stats/hourly?date=: bookings per start hour for
// one day.
func (h *StatsHandler) Hourly(c echo.Context) error {
	fecha, ok := statsDate(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha inválida, use el formato YYYY-MM-DD"})
	}
	counts, err := h.Stats.Hourly(c.Request().Context(), fecha)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": counts})
}
