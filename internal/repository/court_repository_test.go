package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/court-reservation/internal/model"
)

func newMockCourtRepo(t *testing.T) (*CourtRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCourtRepo(db), mock
}

func TestGetForUpdateLocksCourtRow(t *testing.T) {
	repo, mock := newMockCourtRepo(t)

	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM cancha WHERE id_cancha = \\? FOR UPDATE").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id_cancha", "nombre", "tipo", "disponibilidad_horaria",
			"estado_cancha", "tarifa_hora", "created_at",
		}).AddRow(3, "Cancha Norte", "F5", "08:00-23:00", model.CourtAvailable, 150.0, created))

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}
	ct, err := repo.GetForUpdateTx(context.Background(), tx, 3)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if ct.Nombre != "Cancha Norte" || ct.TarifaHora != 150.0 {
		t.Fatalf("unexpected court: %+v", ct)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetForUpdateMissingCourt(t *testing.T) {
	repo, mock := newMockCourtRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM cancha WHERE id_cancha = \\? FOR UPDATE").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id_cancha", "nombre", "tipo", "disponibilidad_horaria",
			"estado_cancha", "tarifa_hora", "created_at",
		}))

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}
	if _, err := repo.GetForUpdateTx(context.Background(), tx, 99); !errors.Is(err, ErrCourtNotFound) {
		t.Fatalf("expected ErrCourtNotFound, got %v", err)
	}
}

func TestDeleteCourtWithBookingsIsConflict(t *testing.T) {
	repo, mock := newMockCourtRepo(t)

	mock.ExpectExec("DELETE FROM cancha WHERE id_cancha = \\?").
		WithArgs(uint64(3)).
		WillReturnError(errors.New("Error 1451: Cannot delete or update a parent row"))

	if err := repo.Delete(context.Background(), 3); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
