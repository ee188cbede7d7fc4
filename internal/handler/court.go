package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-reservation/internal/model"
	"github.com/iliyamo/court-reservation/internal/repository"
	"github.com/iliyamo/court-reservation/internal/schedule"
)

// CourtHandler exposes CRUD for canchas.
type CourtHandler struct {
	Courts *repository.CourtRepo
}

func NewCourtHandler(courts *repository.CourtRepo) *CourtHandler {
	if courts == nil {
		panic("nil repository passed to NewCourtHandler")
	}
	return &CourtHandler{Courts: courts}
}

type courtReq struct {
	Nombre         *string  `json:"nombre"`
	Tipo           *string  `json:"tipo"`
	OperatingHours *string  `json:"disponibilidad_horaria"`
	Estado         *string  `json:"estado_cancha"`
	TarifaHora     *float64 `json:"tarifa_hora"`
}

// CreateCourt handles POST /v1/courts.
func (h *CourtHandler) CreateCourt(c echo.Context) error {
	var body courtReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Nombre == nil || strings.TrimSpace(*body.Nombre) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "el nombre de la cancha es obligatorio"})
	}
	if body.TarifaHora != nil && *body.TarifaHora < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "la tarifa por hora no puede ser negativa"})
	}

	ct := &model.Court{
		Nombre: strings.TrimSpace(*body.Nombre),
		Estado: model.CourtAvailable,
	}
	if body.Tipo != nil {
		ct.Tipo = strings.TrimSpace(*body.Tipo)
	}
	if body.TarifaHora != nil {
		ct.TarifaHora = *body.TarifaHora
	}
	if body.OperatingHours != nil {
		hrs := strings.TrimSpace(*body.OperatingHours)
		if !schedule.ValidWindow(hrs) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "horario inválido, use el formato HH:MM-HH:MM"})
		}
		ct.OperatingHours = hrs
	}
	if body.Estado != nil {
		estado := strings.TrimSpace(*body.Estado)
		if !model.ValidCourtStatus(estado) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado de cancha inválido"})
		}
		ct.Estado = estado
	}

	if err := h.Courts.Create(c.Request().Context(), ct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo crear la cancha"})
	}
	return c.JSON(http.StatusCreated, ct)
}

// ListCourts handles GET /v1/courts.
func (h *CourtHandler) ListCourts(c echo.Context) error {
	items, err := h.Courts.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCourt handles GET /v1/courts/:id.
func (h *CourtHandler) GetCourt(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ct, err := h.Courts.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCourtNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, ct)
}

// UpdateCourt handles PUT /v1/courts/:id.  Omitted fields keep their
// current value.
func (h *CourtHandler) UpdateCourt(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.Courts.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCourtNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body courtReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Nombre != nil {
		if strings.TrimSpace(*body.Nombre) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "el nombre de la cancha es obligatorio"})
		}
		cur.Nombre = strings.TrimSpace(*body.Nombre)
	}
	if body.Tipo != nil {
		cur.Tipo = strings.TrimSpace(*body.Tipo)
	}
	if body.OperatingHours != nil {
		hrs := strings.TrimSpace(*body.OperatingHours)
		if !schedule.ValidWindow(hrs) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "horario inválido, use el formato HH:MM-HH:MM"})
		}
		cur.OperatingHours = hrs
	}
	if body.Estado != nil {
		estado := strings.TrimSpace(*body.Estado)
		if !model.ValidCourtStatus(estado) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado de cancha inválido"})
		}
		cur.Estado = estado
	}
	if body.TarifaHora != nil {
		if *body.TarifaHora < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "la tarifa por hora no puede ser negativa"})
		}
		cur.TarifaHora = *body.TarifaHora
	}

	if err := h.Courts.Update(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCourtNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}

// UpdateCourtStatus handles PATCH /v1/courts/:id/status, the quick toggle
// the dashboard uses to take a court out of rotation.
func (h *CourtHandler) UpdateCourtStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Estado string `json:"estado_cancha"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	estado := strings.TrimSpace(body.Estado)
	if !model.ValidCourtStatus(estado) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado de cancha inválido"})
	}
	if err := h.Courts.UpdateEstado(c.Request().Context(), id, estado); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCourtNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id_cancha": id, "estado_cancha": estado})
}

// DeleteCourt handles DELETE /v1/courts/:id.  Courts referenced by
// bookings cannot be removed.
func (h *CourtHandler) DeleteCourt(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Courts.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCourtNotFound.Error()})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "la cancha tiene reservas asociadas"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
