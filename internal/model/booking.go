package model

import "time"

// Booking statuses as stored in reserva.estado_reserva.  A booking starts
// as pendiente and is confirmed manually; the expiration sweeper moves
// stale pendiente rows to cancelada.  There is no enforced transition
// table for manual status changes.
const (
	BookingPending   = "pendiente"
	BookingConfirmed = "confirmada"
	BookingCancelled = "cancelada"
	BookingCompleted = "completada"
)

// Booking records the reservation of a court by a customer for a date and
// time range (a "reserva").  Times are wall-clock "HH:MM" strings on the
// booking date; HoraFin equal to "00:00" is the closing-time sentinel and
// means midnight of the following day.  The interval is half-open: a
// booking occupies [HoraInicio, HoraFin).
//
// Fields:
//
//	ID         – primary key identifier.
//	Fecha      – booking date, "YYYY-MM-DD".
//	HoraInicio – start of the interval, "HH:MM".
//	HoraFin    – end of the interval, "HH:MM" ("00:00" = next midnight).
//	Estado     – booking status (see Booking* constants).
//	CustomerID – customer who booked.
//	CourtID    – court being booked.
//	Costo      – computed cost (duration × hourly rate, 2 decimals).
//	CreatedAt  – creation timestamp; drives pending expiration.
type Booking struct {
	ID         uint64    `json:"id_reserva"`     // reserva.id_reserva
	Fecha      string    `json:"fecha_reserva"`  // reserva.fecha_reserva
	HoraInicio string    `json:"hora_inicio"`    // reserva.hora_inicio
	HoraFin    string    `json:"hora_fin"`       // reserva.hora_fin
	Estado     string    `json:"estado_reserva"` // reserva.estado_reserva
	CustomerID uint64    `json:"id_cliente"`     // reserva.id_cliente
	CourtID    uint64    `json:"id_cancha"`      // reserva.id_cancha
	Costo      float64   `json:"costo_reserva"`  // reserva.costo_reserva
	CreatedAt  time.Time `json:"created_at"`     // reserva.created_at

	// Denormalized display fields populated by list queries.  They are
	// never written back to the reserva table.
	ClienteNombre string `json:"cliente_nombre,omitempty"`
	CanchaNombre  string `json:"cancha_nombre,omitempty"`
}

// ValidBookingStatus reports whether s is one of the recognized booking states.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}
