package model

import "time"

// Court statuses as stored in the cancha.estado_cancha column.  Courts in
// any state other than CourtAvailable are excluded from new-booking
// eligibility.
const (
	CourtAvailable   = "disponible"
	CourtUnavailable = "no disponible"
	CourtMaintenance = "mantenimiento"
)

// Court represents a reservable facility unit (a "cancha").  Each court
// carries an hourly rate used to price bookings and an operating-hours
// window in "HH:MM-HH:MM" form, e.g. "08:00-23:00".  A closing time of
// 00:00 means midnight of the following day.
//
// Fields:
//
//	ID             – primary key identifier.
//	Nombre         – human-friendly court name.
//	Tipo           – player-count type, e.g. "F5", "F7".
//	OperatingHours – daily bookable window, "HH:MM-HH:MM".
//	Estado         – availability status (see Court* constants).
//	TarifaHora     – hourly rate in the facility's currency.
//	CreatedAt      – creation timestamp.
type Court struct {
	ID             uint64    `json:"id_cancha"`              // cancha.id_cancha
	Nombre         string    `json:"nombre"`                 // cancha.nombre
	Tipo           string    `json:"tipo"`                   // cancha.tipo
	OperatingHours string    `json:"disponibilidad_horaria"` // cancha.disponibilidad_horaria
	Estado         string    `json:"estado_cancha"`          // cancha.estado_cancha
	TarifaHora     float64   `json:"tarifa_hora"`            // cancha.tarifa_hora
	CreatedAt      time.Time `json:"created_at"`             // cancha.created_at
}

// ValidCourtStatus reports whether s is one of the recognized court states.
func ValidCourtStatus(s string) bool {
	switch s {
	case CourtAvailable, CourtUnavailable, CourtMaintenance:
		return true
	}
	return false
}
