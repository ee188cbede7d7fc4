package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-reservation/internal/model"
	"github.com/iliyamo/court-reservation/internal/queue"
	"github.com/iliyamo/court-reservation/internal/repository"
	"github.com/iliyamo/court-reservation/internal/schedule"
)

// BookingHandler exposes CRUD for reservas.  Create and update run the
// whole validate, operating-hours, conflict and pricing sequence inside
// one transaction that locks the court row, so two concurrent requests
// for the same slot cannot both pass the availability check.
type BookingHandler struct {
	Bookings  *repository.BookingRepo
	Courts    *repository.CourtRepo
	Customers *repository.CustomerRepo

	// Publish sends a change-feed event after a successful write.  Nil
	// disables the feed; failures never affect the HTTP response.
	Publish func(ctx context.Context, ev queue.BookingChangedEvent) error
}

func NewBookingHandler(b *repository.BookingRepo, co *repository.CourtRepo, cu *repository.CustomerRepo,
	publish func(ctx context.Context, ev queue.BookingChangedEvent) error) *BookingHandler {
	if b == nil || co == nil || cu == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Courts: co, Customers: cu, Publish: publish}
}

type bookingReq struct {
	Fecha      *string `json:"fecha_reserva"`
	HoraInicio *string `json:"hora_inicio"`
	HoraFin    *string `json:"hora_fin"`
	Estado     *string `json:"estado_reserva"`
	CustomerID *uint64 `json:"id_cliente"`
	CourtID    *uint64 `json:"id_cancha"`
}

func (h *BookingHandler) notify(action string, b *model.Booking) {
	if h.Publish == nil {
		return
	}
	ev := queue.BookingChangedEvent{
		Action:     action,
		BookingID:  b.ID,
		Fecha:      b.Fecha,
		HoraInicio: b.HoraInicio,
		HoraFin:    b.HoraFin,
		Estado:     b.Estado,
		CustomerID: b.CustomerID,
		CourtID:    b.CourtID,
		Costo:      b.Costo,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	// Fire and forget; a broker outage must not fail the write.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}

// CreateBooking handles POST /v1/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body bookingReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Fecha == nil || body.HoraInicio == nil || body.HoraFin == nil ||
		body.CustomerID == nil || body.CourtID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha_reserva, hora_inicio, hora_fin, id_cliente e id_cancha son obligatorios"})
	}
	fecha := strings.TrimSpace(*body.Fecha)
	if _, err := time.Parse("2006-01-02", fecha); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha inválida, use el formato YYYY-MM-DD"})
	}
	inicio := schedule.Normalize(*body.HoraInicio)
	fin := schedule.Normalize(*body.HoraFin)
	if err := schedule.ValidateTimeRange(inicio, fin); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	estado := model.BookingPending
	if body.Estado != nil {
		estado = strings.TrimSpace(*body.Estado)
		if !model.ValidBookingStatus(estado) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado de reserva inválido"})
		}
	}

	ctx := c.Request().Context()
	if _, err := h.Customers.GetByID(ctx, *body.CustomerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCustomerNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	b := &model.Booking{
		Fecha:      fecha,
		HoraInicio: inicio,
		HoraFin:    fin,
		Estado:     estado,
		CustomerID: *body.CustomerID,
		CourtID:    *body.CourtID,
	}
	if status, msg := h.writeBooking(ctx, b, 0); status != 0 {
		return c.JSON(status, echo.Map{"error": msg})
	}
	h.notify(queue.ActionInsert, b)
	return c.JSON(http.StatusCreated, b)
}

// writeBooking locks the court row, re-checks eligibility and conflicts,
// prices the booking and persists it, all in one transaction.  excludeID
// is the booking being updated, zero for a create.  A zero status return
// means success.
func (h *BookingHandler) writeBooking(ctx context.Context, b *model.Booking, excludeID uint64) (int, string) {
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return http.StatusInternalServerError, "db error"
	}
	defer func() { _ = tx.Rollback() }()

	court, err := h.Courts.GetForUpdateTx(ctx, tx, b.CourtID)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return http.StatusNotFound, repository.ErrCourtNotFound.Error()
		}
		return http.StatusInternalServerError, "db error"
	}
	if court.Estado != model.CourtAvailable {
		return http.StatusConflict, "la cancha no está disponible para reservas"
	}
	if err := schedule.WithinOperatingHours(b.HoraInicio, b.HoraFin, court.OperatingHours); err != nil {
		return http.StatusBadRequest, err.Error()
	}

	existing, err := h.Bookings.ActiveIntervalsTx(ctx, tx, b.CourtID, b.Fecha, excludeID)
	if err != nil {
		return http.StatusInternalServerError, "db error"
	}
	candidate := schedule.Interval{Start: b.HoraInicio, End: b.HoraFin}
	if err := schedule.CheckAvailability(candidate, existing); err != nil {
		return http.StatusConflict, err.Error()
	}

	b.Costo = schedule.Cost(court.TarifaHora, b.HoraInicio, b.HoraFin)

	if excludeID == 0 {
		err = h.Bookings.CreateTx(ctx, tx, b)
	} else {
		err = h.Bookings.UpdateTx(ctx, tx, b)
	}
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return http.StatusNotFound, repository.ErrBookingNotFound.Error()
		}
		return http.StatusInternalServerError, "write failed"
	}
	if err := tx.Commit(); err != nil {
		return http.StatusInternalServerError, "db error"
	}
	return 0, ""
}

// ListBookings handles GET /v1/bookings?date=&court_id=&status=&q=.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	f := repository.BookingFilter{
		Fecha: strings.TrimSpace(c.QueryParam("date")),
		Query: strings.TrimSpace(c.QueryParam("q")),
	}
	if raw := c.QueryParam("court_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court_id"})
		}
		f.CourtID = id
	}
	if estado := strings.TrimSpace(c.QueryParam("status")); estado != "" {
		if !model.ValidBookingStatus(estado) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado de reserva inválido"})
		}
		f.Estado = estado
	}
	items, err := h.Bookings.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrBookingNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateBooking handles PUT /v1/bookings/:id.  Omitted fields keep their
// current value; the conflict check skips the booking's own row.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	cur, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrBookingNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body bookingReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Fecha != nil {
		fecha := strings.TrimSpace(*body.Fecha)
		if _, err := time.Parse("2006-01-02", fecha); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha inválida, use el formato YYYY-MM-DD"})
		}
		cur.Fecha = fecha
	}
	if body.HoraInicio != nil {
		cur.HoraInicio = schedule.Normalize(*body.HoraInicio)
	}
	if body.HoraFin != nil {
		cur.HoraFin = schedule.Normalize(*body.HoraFin)
	}
	if err := schedule.ValidateTimeRange(cur.HoraInicio, cur.HoraFin); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if body.Estado != nil {
		estado := strings.TrimSpace(*body.Estado)
		if !model.ValidBookingStatus(estado) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado de reserva inválido"})
		}
		cur.Estado = estado
	}
	if body.CustomerID != nil {
		if _, err := h.Customers.GetByID(ctx, *body.CustomerID); err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCustomerNotFound.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		cur.CustomerID = *body.CustomerID
	}
	if body.CourtID != nil {
		cur.CourtID = *body.CourtID
	}

	if status, msg := h.writeBooking(ctx, cur, id); status != 0 {
		return c.JSON(status, echo.Map{"error": msg})
	}
	h.notify(queue.ActionUpdate, cur)
	return c.JSON(http.StatusOK, cur)
}

// UpdateBookingStatus handles PATCH /v1/bookings/:id/status.  Any valid
// status value is accepted; there is no enforced transition table.
func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Estado string `json:"estado_reserva"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	estado := strings.TrimSpace(body.Estado)
	if !model.ValidBookingStatus(estado) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado de reserva inválido"})
	}
	ctx := c.Request().Context()
	if err := h.Bookings.UpdateStatus(ctx, id, estado); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrBookingNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if b, err := h.Bookings.GetByID(ctx, id); err == nil {
		h.notify(queue.ActionUpdate, b)
		return c.JSON(http.StatusOK, b)
	}
	return c.JSON(http.StatusOK, echo.Map{"id_reserva": id, "estado_reserva": estado})
}

// DeleteBooking handles DELETE /v1/bookings/:id.  Confirmed bookings
// cannot be deleted; they must be cancelled first.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrBookingNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConfirmedImmutable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrConfirmedImmutable.Error()})
		}
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrBookingNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.notify(queue.ActionDelete, b)
	return c.NoContent(http.StatusNoContent)
}
