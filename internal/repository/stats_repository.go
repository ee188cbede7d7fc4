// This file defines the aggregate queries behind the dashboard cards and
// charts: booking counts by status, daily revenue, per-weekday and
// per-hour usage. They are read-only and tolerate an empty database by
// returning zero values.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/court-reservation/internal/model"
)

// DashboardStats aggregates the headline numbers shown on the dashboard.
type DashboardStats struct {
	TotalReservas       int     `json:"total_reservas"`
	ReservasConfirmadas int     `json:"reservas_confirmadas"`
	ReservasPendientes  int     `json:"reservas_pendientes"`
	ClientesActivos     int     `json:"clientes_activos"`
	CanchasDisponibles  int     `json:"canchas_disponibles"`
	TotalCanchas        int     `json:"total_canchas"`
	IngresosDiarios     float64 `json:"ingresos_diarios"`
}

// WeekdayCount is one bar of the weekly bookings chart.
type WeekdayCount struct {
	Weekday string `json:"weekday"` // MySQL DAYNAME, e.g. "Monday"
	Count   int    `json:"count"`
}

// HourCount is one bar of the hourly usage chart.
type HourCount struct {
	Hour  int `json:"hour"` // start hour, 0-23
	Count int `json:"count"`
}

// StatsRepo runs the aggregate queries for the dashboard.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo constructs a StatsRepo with the provided DB handle.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Dashboard computes the headline stats.  Daily revenue sums the cost of
// confirmed and completed bookings dated fecha ("YYYY-MM-DD").
func (r *StatsRepo) Dashboard(ctx context.Context, fecha string) (DashboardStats, error) {
	var s DashboardStats

	const qBookings = `SELECT
        COUNT(*),
        COALESCE(SUM(estado_reserva = ?), 0),
        COALESCE(SUM(estado_reserva = ?), 0)
        FROM reserva`
	if err := r.db.QueryRowContext(ctx, qBookings, model.BookingConfirmed, model.BookingPending).
		Scan(&s.TotalReservas, &s.ReservasConfirmadas, &s.ReservasPendientes); err != nil {
		return s, err
	}

	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cliente").Scan(&s.ClientesActivos); err != nil {
		return s, err
	}

	const qCourts = "SELECT COUNT(*), COALESCE(SUM(estado_cancha = ?), 0) FROM cancha"
	if err := r.db.QueryRowContext(ctx, qCourts, model.CourtAvailable).
		Scan(&s.TotalCanchas, &s.CanchasDisponibles); err != nil {
		return s, err
	}

	const qRevenue = `SELECT COALESCE(SUM(costo_reserva), 0) FROM reserva
                      WHERE fecha_reserva = ? AND estado_reserva IN (?, ?)`
	if err := r.db.QueryRowContext(ctx, qRevenue, fecha, model.BookingConfirmed, model.BookingCompleted).
		Scan(&s.IngresosDiarios); err != nil {
		return s, err
	}
	return s, nil
}

// Weekly counts non-cancelled bookings per weekday over the last seven
// days, feeding the weekly bookings chart.
func (r *StatsRepo) Weekly(ctx context.Context) ([]WeekdayCount, error) {
	const q = `SELECT DAYNAME(fecha_reserva), COUNT(*)
               FROM reserva
               WHERE fecha_reserva >= DATE_SUB(CURDATE(), INTERVAL 6 DAY)
                 AND estado_reserva <> ?
               GROUP BY DAYOFWEEK(fecha_reserva), DAYNAME(fecha_reserva)
               ORDER BY DAYOFWEEK(fecha_reserva)`
	rows, err := r.db.QueryContext(ctx, q, model.BookingCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var counts []WeekdayCount
	for rows.Next() {
		var wc WeekdayCount
		if err := rows.Scan(&wc.Weekday, &wc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, wc)
	}
	return counts, rows.Err()
}

// Hourly counts non-cancelled bookings per start hour for one date,
// feeding the hourly usage chart.
func (r *StatsRepo) Hourly(ctx context.Context, fecha string) ([]HourCount, error) {
	const q = `SELECT HOUR(hora_inicio), COUNT(*)
               FROM reserva
               WHERE fecha_reserva = ? AND estado_reserva <> ?
               GROUP BY HOUR(hora_inicio)
               ORDER BY HOUR(hora_inicio)`
	rows, err := r.db.QueryContext(ctx, q, fecha, model.BookingCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var counts []HourCount
	for rows.Next() {
		var hc HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, hc)
	}
	return counts, rows.Err()
}
