// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// string matching. For example, ErrCourtNotFound maps to an HTTP 404
// while ErrConfirmedImmutable signals that a confirmed booking cannot
// be deleted and maps to an HTTP 409.
package repository

import "errors"

// ErrCourtNotFound is returned when a cancha row cannot be found.
var ErrCourtNotFound = errors.New("cancha no encontrada")

// ErrCustomerNotFound is returned when a cliente row cannot be found.
var ErrCustomerNotFound = errors.New("cliente no encontrado")

// ErrBookingNotFound is returned when a reserva row cannot be found.
var ErrBookingNotFound = errors.New("reserva no encontrada")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as removing a court that still has
// bookings. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflicto")

// ErrConfirmedImmutable is returned when a delete targets a booking in
// the confirmada state. Confirmed bookings can only be completed or
// cancelled through a status change, never removed.
var ErrConfirmedImmutable = errors.New("una reserva confirmada no puede eliminarse")
