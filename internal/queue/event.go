// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by BookingChangedEvent, mirroring the row operation
// that produced the event.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// BookingChangedEvent is published whenever a reserva row is inserted,
// updated or deleted, including cancellations performed by the expiration
// sweeper. It carries enough of the row for downstream consumers to
// refresh views, log or notify without querying the primary database.
type BookingChangedEvent struct {
	Action     string  `json:"action"` // INSERT | UPDATE | DELETE
	BookingID  uint64  `json:"id_reserva"`
	Fecha      string  `json:"fecha_reserva"`
	HoraInicio string  `json:"hora_inicio"`
	HoraFin    string  `json:"hora_fin"`
	Estado     string  `json:"estado_reserva"`
	CustomerID uint64  `json:"id_cliente"`
	CourtID    uint64  `json:"id_cancha"`
	Costo      float64 `json:"costo_reserva"`
	OccurredAt string  `json:"occurred_at"` // RFC3339 UTC
}
