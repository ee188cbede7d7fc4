// This file defines repository methods for the reserva table. Bookings
// carry their times as TIME columns; every query formats them back to
// "HH:MM" so the schedule package compares like with like. Methods with a
// Tx suffix run inside a caller-supplied transaction: booking writes pair
// a court row lock with the conflict window query so availability
// checking and insertion are atomic.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/court-reservation/internal/model"
	"github.com/iliyamo/court-reservation/internal/schedule"
)

// BookingRepo encapsulates all database queries related to bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `r.id_reserva,
    DATE_FORMAT(r.fecha_reserva, '%Y-%m-%d'),
    TIME_FORMAT(r.hora_inicio, '%H:%i'),
    TIME_FORMAT(r.hora_fin, '%H:%i'),
    r.estado_reserva, r.id_cliente, r.id_cancha, r.costo_reserva, r.created_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(&b.ID, &b.Fecha, &b.HoraInicio, &b.HoraFin, &b.Estado,
		&b.CustomerID, &b.CourtID, &b.Costo, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts a booking within the provided transaction.  The caller
// is responsible for committing or rolling back; the ID and CreatedAt
// fields are populated on success.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const qInsert = `INSERT INTO reserva
        (fecha_reserva, hora_inicio, hora_fin, estado_reserva, id_cliente, id_cancha, costo_reserva)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		b.Fecha, b.HoraInicio, b.HoraFin, b.Estado, b.CustomerID, b.CourtID, b.Costo)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const qSelect = "SELECT created_at FROM reserva WHERE id_reserva = ?"
	return tx.QueryRowContext(ctx, qSelect, b.ID).Scan(&b.CreatedAt)
}

// UpdateTx replaces the mutable fields of a booking within the provided
// transaction.  The cost is always rewritten since a court or time change
// reprices the booking.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE reserva
               SET fecha_reserva = ?, hora_inicio = ?, hora_fin = ?, estado_reserva = ?,
                   id_cliente = ?, id_cancha = ?, costo_reserva = ?
               WHERE id_reserva = ?`
	res, err := tx.ExecContext(ctx, q,
		b.Fecha, b.HoraInicio, b.HoraFin, b.Estado, b.CustomerID, b.CourtID, b.Costo, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		if err := tx.QueryRowContext(ctx, "SELECT id_reserva FROM reserva WHERE id_reserva = ?", b.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrBookingNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches a booking by its ID.  It returns ErrBookingNotFound if
// no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM reserva r WHERE r.id_reserva = ?"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// BookingFilter narrows List results.  Zero values mean "no filter".
// Query matches the booking date, the booking ID or the customer's name.
type BookingFilter struct {
	Fecha   string
	CourtID uint64
	Estado  string
	Query   string
}

// List returns bookings with the customer and court display names joined
// in, newest date and start time first.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + `,
              CONCAT(cl.nombre, ' ', cl.apellido), ca.nombre
          FROM reserva r
          JOIN cliente cl ON cl.id_cliente = r.id_cliente
          JOIN cancha ca ON ca.id_cancha = r.id_cancha`
	var (
		where []string
		args  []any
	)
	if f.Fecha != "" {
		where = append(where, "r.fecha_reserva = ?")
		args = append(args, f.Fecha)
	}
	if f.CourtID != 0 {
		where = append(where, "r.id_cancha = ?")
		args = append(args, f.CourtID)
	}
	if f.Estado != "" {
		where = append(where, "r.estado_reserva = ?")
		args = append(args, f.Estado)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		where = append(where, `(DATE_FORMAT(r.fecha_reserva, '%Y-%m-%d') LIKE ?
            OR CAST(r.id_reserva AS CHAR) LIKE ?
            OR CONCAT(cl.nombre, ' ', cl.apellido) LIKE ?)`)
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY r.fecha_reserva DESC, r.hora_inicio DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Fecha, &b.HoraInicio, &b.HoraFin, &b.Estado,
			&b.CustomerID, &b.CourtID, &b.Costo, &b.CreatedAt,
			&b.ClienteNombre, &b.CanchaNombre); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ActiveIntervalsTx returns the occupied [start, end) intervals for a
// court and date, skipping cancelled bookings and optionally one booking
// ID (the row being updated).  It must run inside the same transaction
// that locked the court row so a concurrent request cannot slip a
// conflicting insert between this query and the caller's write.
func (r *BookingRepo) ActiveIntervalsTx(ctx context.Context, tx *sql.Tx, courtID uint64, fecha string, excludeID uint64) ([]schedule.Interval, error) {
	q := `SELECT TIME_FORMAT(hora_inicio, '%H:%i'), TIME_FORMAT(hora_fin, '%H:%i')
          FROM reserva
          WHERE id_cancha = ? AND fecha_reserva = ? AND estado_reserva <> ?`
	args := []any{courtID, fecha, model.BookingCancelled}
	if excludeID != 0 {
		q += " AND id_reserva <> ?"
		args = append(args, excludeID)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var intervals []schedule.Interval
	for rows.Next() {
		var iv schedule.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}

// UpdateStatus changes only the booking status.  The caller validates the
// status value; there is no enforced transition table for manual changes.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, estado string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE reserva SET estado_reserva = ? WHERE id_reserva = ?", estado, id)
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

// Delete removes a booking.  Bookings in the confirmada state are
// immutable with respect to deletion and yield ErrConfirmedImmutable.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Estado == model.BookingConfirmed {
		return ErrConfirmedImmutable
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM reserva WHERE id_reserva = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// FindExpiredPending returns bookings still in pendiente whose created_at
// is strictly older than the cutoff.  Non-pending rows never match,
// regardless of age.
func (r *BookingRepo) FindExpiredPending(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	const q = "SELECT " + bookingColumns + ` FROM reserva r
               WHERE r.estado_reserva = ? AND r.created_at < ?`
	rows, err := r.db.QueryContext(ctx, q, model.BookingPending, cutoff.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var expired []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

// CancelBatch moves the given bookings to cancelada in one statement.
// Only rows still in pendiente are touched, which keeps overlapping
// sweeps idempotent: a second sweep finds zero matches for rows the
// first one already cancelled.
func (r *BookingRepo) CancelBatch(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := "UPDATE reserva SET estado_reserva = ? WHERE estado_reserva = ? AND id_reserva IN (?" +
		strings.Repeat(",?", len(ids)-1) + ")"
	args := make([]any, 0, len(ids)+2)
	args = append(args, model.BookingCancelled, model.BookingPending)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PendingCreatedAt returns the creation timestamp of a booking that is
// still pendiente.  It returns ErrBookingNotFound when the booking does
// not exist or is no longer pending; the remaining-time display is only
// meaningful for pending bookings.
func (r *BookingRepo) PendingCreatedAt(ctx context.Context, id uint64) (time.Time, error) {
	const q = "SELECT created_at FROM reserva WHERE id_reserva = ? AND estado_reserva = ?"
	var created time.Time
	err := r.db.QueryRowContext(ctx, q, id, model.BookingPending).Scan(&created)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrBookingNotFound
	}
	return created, err
}
