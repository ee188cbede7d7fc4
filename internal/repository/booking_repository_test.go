package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/court-reservation/internal/model"
)

func newMockRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func TestActiveIntervalsSkipsCancelledAndExcludedRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT TIME_FORMAT\\(hora_inicio").
		WithArgs(uint64(3), "2025-06-10", model.BookingCancelled, uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"hora_inicio", "hora_fin"}).
			AddRow("10:00", "11:00").
			AddRow("18:00", "20:00"))

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}
	intervals, err := repo.ActiveIntervalsTx(context.Background(), tx, 3, "2025-06-10", 7)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(intervals))
	}
	if intervals[0].Start != "10:00" || intervals[0].End != "11:00" {
		t.Fatalf("unexpected first interval: %v", intervals[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindExpiredPendingUsesCutoff(t *testing.T) {
	repo, mock := newMockRepo(t)

	cutoff := time.Date(2025, 6, 10, 11, 55, 0, 0, time.UTC)
	created := cutoff.Add(-2 * time.Minute)
	mock.ExpectQuery("(?s)SELECT .+ FROM reserva r\\s+WHERE r\\.estado_reserva = \\? AND r\\.created_at < \\?").
		WithArgs(model.BookingPending, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{
			"id_reserva", "fecha_reserva", "hora_inicio", "hora_fin",
			"estado_reserva", "id_cliente", "id_cancha", "costo_reserva", "created_at",
		}).AddRow(9, "2025-06-10", "15:00", "16:00", model.BookingPending, 2, 3, 150.0, created))

	expired, err := repo.FindExpiredPending(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != 9 {
		t.Fatalf("unexpected result: %+v", expired)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBatchOnlyTouchesPendingRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE reserva SET estado_reserva = \\? WHERE estado_reserva = \\? AND id_reserva IN \\(\\?,\\?\\)").
		WithArgs(model.BookingCancelled, model.BookingPending, uint64(4), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1)) // one row already cancelled elsewhere

	n, err := repo.CancelBatch(context.Background(), []uint64{4, 5})
	if err != nil {
		t.Fatalf("exec error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 affected row, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBatchEmptyIsNoop(t *testing.T) {
	repo, _ := newMockRepo(t)
	n, err := repo.CancelBatch(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op, got n=%d err=%v", n, err)
	}
}

func TestDeleteRefusesConfirmedBooking(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("(?s)SELECT .+ FROM reserva r WHERE r\\.id_reserva = \\?").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id_reserva", "fecha_reserva", "hora_inicio", "hora_fin",
			"estado_reserva", "id_cliente", "id_cancha", "costo_reserva", "created_at",
		}).AddRow(12, "2025-06-10", "10:00", "11:00", model.BookingConfirmed, 2, 3, 100.0, created))

	err := repo.Delete(context.Background(), 12)
	if !errors.Is(err, ErrConfirmedImmutable) {
		t.Fatalf("expected ErrConfirmedImmutable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPendingCreatedAtNotPendingIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT created_at FROM reserva WHERE id_reserva = \\? AND estado_reserva = \\?").
		WithArgs(uint64(8), model.BookingPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	_, err := repo.PendingCreatedAt(context.Background(), 8)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
