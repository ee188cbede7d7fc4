// This file defines repository methods for the cancha table. A Court is
// the unit being reserved; its hourly rate prices bookings and its
// operating-hours window bounds them. Availability checks lock the court
// row (SELECT ... FOR UPDATE) so that two concurrent booking requests for
// the same court serialize instead of both passing the conflict check.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/court-reservation/internal/model"
)

// CourtRepo encapsulates all database queries related to courts.  It
// depends on a sql.DB connection which should be configured elsewhere.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo constructs a CourtRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions
// that span courts and bookings.
func (r *CourtRepo) DB() *sql.DB { return r.db }

const courtColumns = "id_cancha, nombre, tipo, disponibilidad_horaria, estado_cancha, tarifa_hora, created_at"

func scanCourt(row interface{ Scan(...any) error }) (*model.Court, error) {
	var ct model.Court
	if err := row.Scan(&ct.ID, &ct.Nombre, &ct.Tipo, &ct.OperatingHours, &ct.Estado, &ct.TarifaHora, &ct.CreatedAt); err != nil {
		return nil, err
	}
	return &ct, nil
}

// Create inserts a new court.  On success the court's ID and CreatedAt
// fields are populated from the stored row.
func (r *CourtRepo) Create(ctx context.Context, ct *model.Court) error {
	const qInsert = `INSERT INTO cancha (nombre, tipo, disponibilidad_horaria, estado_cancha, tarifa_hora)
                     VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, ct.Nombre, ct.Tipo, ct.OperatingHours, ct.Estado, ct.TarifaHora)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ct.ID = uint64(id)
	const qSelect = "SELECT created_at FROM cancha WHERE id_cancha = ?"
	return r.db.QueryRowContext(ctx, qSelect, ct.ID).Scan(&ct.CreatedAt)
}

// GetByID fetches a court by its ID.  It returns ErrCourtNotFound if no
// row exists.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (*model.Court, error) {
	const q = "SELECT " + courtColumns + " FROM cancha WHERE id_cancha = ?"
	ct, err := scanCourt(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrCourtNotFound
	}
	return ct, err
}

// GetForUpdateTx fetches a court inside tx and locks its row until the
// transaction ends.  Booking creation locks the court here before the
// conflict check so concurrent requests for the same court cannot both
// pass the check and double-book the slot.
func (r *CourtRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Court, error) {
	const q = "SELECT " + courtColumns + " FROM cancha WHERE id_cancha = ? FOR UPDATE"
	ct, err := scanCourt(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrCourtNotFound
	}
	return ct, err
}

// List returns all courts ordered by ID.
func (r *CourtRepo) List(ctx context.Context) ([]model.Court, error) {
	const q = "SELECT " + courtColumns + " FROM cancha ORDER BY id_cancha ASC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var courts []model.Court
	for rows.Next() {
		ct, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		courts = append(courts, *ct)
	}
	return courts, rows.Err()
}

// Update replaces the mutable fields of a court.  It returns
// ErrCourtNotFound when no row was touched.
func (r *CourtRepo) Update(ctx context.Context, ct *model.Court) error {
	const q = `UPDATE cancha
               SET nombre = ?, tipo = ?, disponibilidad_horaria = ?, estado_cancha = ?, tarifa_hora = ?
               WHERE id_cancha = ?`
	res, err := r.db.ExecContext(ctx, q, ct.Nombre, ct.Tipo, ct.OperatingHours, ct.Estado, ct.TarifaHora, ct.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean an identical update; confirm existence.
		if _, err := r.GetByID(ctx, ct.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateEstado changes only the availability status of a court.
func (r *CourtRepo) UpdateEstado(ctx context.Context, id uint64, estado string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE cancha SET estado_cancha = ? WHERE id_cancha = ?", estado, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a court.  MySQL enforces the foreign key from reserva;
// a 1451 error means bookings still reference the court and the caller
// should surface a conflict.
func (r *CourtRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cancha WHERE id_cancha = ?", id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourtNotFound
	}
	return nil
}
