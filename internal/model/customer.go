package model

import "time"

// Customer represents a person who books courts (a "cliente").  Beyond a
// non-empty name there are no invariants; contact fields are optional.
//
// Fields:
//
//	ID            – primary key identifier.
//	Nombre        – first name.
//	Apellido      – surname.
//	Telefono      – contact phone, optional.
//	Email         – contact email, optional.
//	FechaRegistro – when the customer was registered.
type Customer struct {
	ID            uint64    `json:"id_cliente"`     // cliente.id_cliente
	Nombre        string    `json:"nombre"`         // cliente.nombre
	Apellido      string    `json:"apellido"`       // cliente.apellido
	Telefono      string    `json:"telefono"`       // cliente.telefono
	Email         string    `json:"email"`          // cliente.email
	FechaRegistro time.Time `json:"fecha_registro"` // cliente.fecha_registro
}
