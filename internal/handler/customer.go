package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-reservation/internal/model"
	"github.com/iliyamo/court-reservation/internal/repository"
)

// CustomerHandler exposes CRUD for clientes.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(customers *repository.CustomerRepo) *CustomerHandler {
	if customers == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{Customers: customers}
}

type customerReq struct {
	Nombre   *string `json:"nombre"`
	Apellido *string `json:"apellido"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"`
}

// CreateCustomer handles POST /v1/customers.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var body customerReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Nombre == nil || strings.TrimSpace(*body.Nombre) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "el nombre del cliente es obligatorio"})
	}
	cl := &model.Customer{Nombre: strings.TrimSpace(*body.Nombre)}
	if body.Apellido != nil {
		cl.Apellido = strings.TrimSpace(*body.Apellido)
	}
	if body.Telefono != nil {
		cl.Telefono = strings.TrimSpace(*body.Telefono)
	}
	if body.Email != nil {
		cl.Email = strings.ToLower(strings.TrimSpace(*body.Email))
	}
	if err := h.Customers.Create(c.Request().Context(), cl); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo crear el cliente"})
	}
	return c.JSON(http.StatusCreated, cl)
}

// ListCustomers handles GET /v1/customers?q=.  The q parameter matches
// name, surname, phone or email.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	items, err := h.Customers.List(c.Request().Context(), strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCustomer handles GET /v1/customers/:id.
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cl, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCustomerNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cl)
}

// UpdateCustomer handles PUT /v1/customers/:id.  Omitted fields keep
// their current value; an empty telefono or email clears the column.
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCustomerNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body customerReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Nombre != nil {
		if strings.TrimSpace(*body.Nombre) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "el nombre del cliente es obligatorio"})
		}
		cur.Nombre = strings.TrimSpace(*body.Nombre)
	}
	if body.Apellido != nil {
		cur.Apellido = strings.TrimSpace(*body.Apellido)
	}
	if body.Telefono != nil {
		cur.Telefono = strings.TrimSpace(*body.Telefono)
	}
	if body.Email != nil {
		cur.Email = strings.ToLower(strings.TrimSpace(*body.Email))
	}
	if err := h.Customers.Update(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCustomerNotFound.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}

// DeleteCustomer handles DELETE /v1/customers/:id.  Customers with
// bookings on file cannot be removed.
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCustomerNotFound.Error()})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "el cliente tiene reservas asociadas"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
